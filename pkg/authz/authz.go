package authz

import (
	"slices"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/go-faster/errors"
)

// Mode selects whether a denied check blocks the request.
type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

var errDisabledNotAllowed = errors.New("authz: AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")

// ParseMode reads an AUTHZ_MODE value; empty means enforce.
func ParseMode(raw string, unsafeAllowDisabled bool) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case "":
		return ModeEnforce, nil
	case ModeEnforce, ModeShadow:
		return m, nil
	case ModeDisabled:
		if unsafeAllowDisabled {
			return m, nil
		}
		return "", errDisabledNotAllowed
	}
	return "", errors.Errorf("authz: invalid AUTHZ_MODE %q (expected enforce|shadow|disabled)", raw)
}

// Authorizer answers (subject, domain, object, action) checks against a
// casbin model and a CSV policy.
type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

// NewAuthorizer loads the model and policy and rejects policy rules that
// name an object, action or domain the catalog routes never ask about.
func NewAuthorizer(modelPath string, policyPath string, mode Mode) (*Authorizer, error) {
	enforcer, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, errors.Wrap(err, "authz: load")
	}
	if err := checkPolicyRules(enforcer); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

func checkPolicyRules(e *casbin.Enforcer) error {
	sec, ok := e.GetModel()["p"]
	if !ok {
		return errors.New("authz: model has no policy section")
	}
	assertion, ok := sec["p"]
	if !ok || assertion == nil {
		return errors.New("authz: model has no p definition")
	}
	for i, rule := range assertion.Policy {
		if len(rule) < 4 {
			return errors.Errorf("authz: policy rule %d: want sub, dom, obj, act", i+1)
		}
		sub, dom, obj, act := rule[0], rule[1], rule[2], rule[3]
		switch {
		case !strings.HasPrefix(sub, "role:"):
			return errors.Errorf("authz: policy rule %d: subject %q is not a role", i+1, sub)
		case dom != DomainGlobal:
			return errors.Errorf("authz: policy rule %d: unknown domain %q", i+1, dom)
		case !slices.Contains(Objects, obj):
			return errors.Errorf("authz: policy rule %d: unknown object %q", i+1, obj)
		case act != ActionRead && act != ActionAdmin:
			return errors.Errorf("authz: policy rule %d: unknown action %q", i+1, act)
		}
	}
	return nil
}

func (a *Authorizer) Mode() Mode { return a.mode }

// SubjectFromRoleSlug maps a role header value to a casbin subject. A missing
// role is the anonymous subject, which the policy grants nothing.
func SubjectFromRoleSlug(roleSlug string) string {
	slug := strings.ToLower(strings.TrimSpace(roleSlug))
	if slug == "" {
		slug = RoleAnonymous
	}
	return "role:" + slug
}

// Authorize evaluates the policy. enforced reports whether the caller must
// honour allowed; shadow mode evaluates without enforcing and disabled mode
// allows everything without evaluating.
func (a *Authorizer) Authorize(subject string, domain string, object string, action string) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow, ModeEnforce:
		enforced = a.mode == ModeEnforce
		allowed, err = a.enforcer.Enforce(subject, domain, object, action)
		if err != nil {
			return false, enforced, err
		}
		return allowed, enforced, nil
	}
	return false, false, errors.Errorf("authz: unknown mode %q", a.mode)
}
