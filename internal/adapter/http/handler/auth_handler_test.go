package handler

import (
	"net/http"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"lovemap/internal/core/model/response"
	factory "lovemap/pkg/test/factory"
)

type AuthHandlerSuite struct {
	suite.Suite
	app *testApp
}

func (s *AuthHandlerSuite) SetupTest() {
	s.app = newTestApp()
}

func (s *AuthHandlerSuite) TearDownTest() {
	s.app.Close()
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) TestSignUpUserSuccess() {
	rr := s.app.do(http.MethodPost, "/signup", `{"email": "Eu@Test.com", "password": "12345678"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	user := decode[response.UserResponse](rr)
	Expect(user.Email).To(Equal("eu@test.com"))
	Expect(user.UUID).NotTo(BeEmpty())
	Expect(rr.Body.String()).NotTo(ContainSubstring("password"))
}

func (s *AuthHandlerSuite) TestSignUpDuplicateEmail() {
	s.app.createUser("dup@test.com")

	rr := s.app.do(http.MethodPost, "/signup", `{"email": "dup@test.com", "password": "12345678"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusConflict))
	Expect(rr.Body.String()).To(ContainSubstring("CONFLICT"))
}

func (s *AuthHandlerSuite) TestSignUpValidationError() {
	rr := s.app.do(http.MethodPost, "/signup", `{"email": "not-an-email", "password": "1"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
	Expect(rr.Body.String()).To(ContainSubstring(`"field":"email"`))
	Expect(rr.Body.String()).To(ContainSubstring(`"field":"password"`))
}

func (s *AuthHandlerSuite) TestSignUpMalformedBody() {
	rr := s.app.do(http.MethodPost, "/signup", `{"email":`, 0)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("BAD_REQUEST"))
}

func (s *AuthHandlerSuite) TestAuthSuccessIssuesUsableToken() {
	user := s.app.createUser("login@test.com")

	rr := s.app.do(http.MethodPost, "/auth", `{"email": "login@test.com", "password": "`+factory.DefaultPassword+`"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusOK))

	auth := decode[response.AuthResponse](rr)
	Expect(auth.Token).NotTo(BeEmpty())
	Expect(auth.User.Email).To(Equal("login@test.com"))

	userID, err := s.app.JWT.VerifyToken(auth.Token)
	Expect(err).NotTo(HaveOccurred())
	Expect(userID).To(Equal(user.ID))
}

func (s *AuthHandlerSuite) TestAuthWrongPassword() {
	s.app.createUser("login@test.com")

	rr := s.app.do(http.MethodPost, "/auth", `{"email": "login@test.com", "password": "wrong-password"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("UNAUTHORIZED"))
}

func (s *AuthHandlerSuite) TestAuthUnknownEmail() {
	rr := s.app.do(http.MethodPost, "/auth", `{"email": "ghost@test.com", "password": "12345678"}`, 0)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestProtectedRouteRequiresToken() {
	rr := s.app.do(http.MethodGet, "/todos", "", 0)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestHealth() {
	rr := s.app.do(http.MethodGet, "/healthz", "", 0)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring(`"status":"ok"`))
}
