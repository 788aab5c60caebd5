// Package authz decides who may do what: profile attribute visibility and the
// ownership and role rules of every mutating endpoint.
package authz

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cedar-policy/cedar-go"
	"go.uber.org/zap"
)

//go:embed policies.cedar
var policiesContent []byte

// Authorizer evaluates requests against the embedded Cedar policy set.
type Authorizer struct {
	policies *cedar.PolicySet
	logger   *zap.Logger
}

// NewAuthorizer parses the embedded policies.
func NewAuthorizer(logger *zap.Logger) (*Authorizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ps, err := cedar.NewPolicySetFromBytes("policies.cedar", policiesContent)
	if err != nil {
		return nil, fmt.Errorf("parse policies: %w", err)
	}
	return &Authorizer{policies: ps, logger: logger}, nil
}

// Allowed reports whether p may perform action on r. Anything not explicitly
// permitted is denied.
func (a *Authorizer) Allowed(_ context.Context, p Principal, action Action, r Resource) bool {
	principal := principalEntity(p)
	resource := resourceEntity(r)
	entities := cedar.EntityMap{
		principal.UID: principal,
		resource.UID:  resource,
	}
	req := cedar.Request{
		Principal: principal.UID,
		Action:    cedar.NewEntityUID("Action", cedar.String(string(action))),
		Resource:  resource.UID,
		Context:   cedar.NewRecord(cedar.RecordMap{}),
	}

	decision, diag := cedar.Authorize(a.policies, entities, req)
	allowed := decision == cedar.Allow

	for _, e := range diag.Errors {
		a.logger.Error("policy evaluation error",
			zap.String("policy", string(e.PolicyID)),
			zap.String("error", e.Message),
		)
	}
	fields := []zap.Field{
		zap.String("principal", p.Username),
		zap.String("role", string(p.Role)),
		zap.String("action", string(action)),
		zap.String("resource_type", r.Type),
		zap.String("resource", r.ID),
	}
	if allowed {
		if len(diag.Reasons) > 0 {
			fields = append(fields, zap.String("policy", string(diag.Reasons[0].PolicyID)))
		}
		a.logger.Debug("authorization allowed", fields...)
	} else {
		a.logger.Info("authorization denied", fields...)
	}
	return allowed
}
