package factory

import (
	"testing"

	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"lovemap/internal/core/domain"
)

func TestNewUser_KeepsDefaultPasswordWithOverrides(t *testing.T) {
	RegisterTestingT(t)

	user := NewUser[domain.User](map[string]any{"Email": "mina@example.com"})

	Expect(user.Email).To(Equal("mina@example.com"))
	Expect(bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(DefaultPassword))).To(Succeed())
}

func TestNewUser_ExplicitPasswordWins(t *testing.T) {
	RegisterTestingT(t)

	user := NewUser[domain.User](map[string]any{"Email": "a@b.co"}, map[string]any{"EncryptedPassword": "stored"})

	Expect(user.Email).To(Equal("a@b.co"))
	Expect(user.EncryptedPassword).To(Equal("stored"))
}

func TestNewTodo_AppliesEveryOverrideMap(t *testing.T) {
	RegisterTestingT(t)

	todo := NewTodo(map[string]any{"Title": "picnic"}, map[string]any{"Done": true})

	Expect(todo.Title).To(Equal("picnic"))
	Expect(todo.Done).To(BeTrue())
	Expect(todo.ID).ToNot(BeEmpty())
}
