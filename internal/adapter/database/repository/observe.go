package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	tel "lovemap/internal/core/telemetry"
	"lovemap/pkg/db"
)

// observation tracks one repository call: its span, its start time and its outcome.
type observation struct {
	ctx       context.Context
	span      port.Span
	telemetry port.Telemetry
	operation string
	entity    string
	startTime time.Time
}

func observe(ctx context.Context, telemetry port.Telemetry, conn *db.DB, operation, entity, table string, attrs map[string]interface{}) (context.Context, *observation) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	attrs["db.system"] = string(conn.Dialect)
	attrs["db.table"] = table

	ctx, span := telemetry.StartRepositorySpan(ctx, operation, entity, attrs)

	return ctx, &observation{
		ctx:       ctx,
		span:      span,
		telemetry: telemetry,
		operation: operation,
		entity:    entity,
		startTime: time.Now(),
	}
}

func (o *observation) query(query string, args []interface{}) {
	o.telemetry.RecordRepositoryQuery(o.ctx, o.operation, o.entity, query, args)
}

// fail ends the span with err and hands err back, translating sql.ErrNoRows.
// A missing row leaves the span status unset.
func (o *observation) fail(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		err = domain.ErrNotFound
	}

	if !errors.Is(err, domain.ErrNotFound) {
		o.span.SetStatus("error", err.Error())
		o.span.RecordError(err)
	}

	o.telemetry.RecordRepositoryOperation(o.ctx, o.operation, o.entity, time.Since(o.startTime), err)
	o.span.End()

	return err
}

func (o *observation) done(attrs map[string]interface{}) {
	duration := time.Since(o.startTime)

	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	attrs["operation.duration_ns"] = duration.Nanoseconds()

	o.span.SetAttributes(attrs)
	o.span.SetStatus("ok", "")
	o.telemetry.RecordRepositoryOperation(o.ctx, o.operation, o.entity, duration, nil)
	o.span.End()
}

func withTelemetry(telemetry port.Telemetry) port.Telemetry {
	if telemetry == nil {
		return tel.NewNoOpProbe()
	}
	return telemetry
}
