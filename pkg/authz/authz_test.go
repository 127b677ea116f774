package authz

import (
	"os"
	"path/filepath"
	"testing"
)

const exactModel = `
[request_definition]
r = sub, dom, obj, act
[policy_definition]
p = sub, dom, obj, act
[policy_effect]
e = some(where (p.eft == allow))
[matchers]
m = r.sub == p.sub && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

// writeFixture writes a model and a policy into a temp dir and returns their
// paths.
func writeFixture(t *testing.T, model, policy string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(modelPath, []byte(model), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(policyPath, []byte(policy), 0o644); err != nil {
		t.Fatal(err)
	}
	return modelPath, policyPath
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw    string
		unsafe bool
		want   Mode
		ok     bool
	}{
		{raw: "", want: ModeEnforce, ok: true},
		{raw: "  ", want: ModeEnforce, ok: true},
		{raw: " Shadow ", want: ModeShadow, ok: true},
		{raw: "ENFORCE", want: ModeEnforce, ok: true},
		{raw: "disabled", ok: false},
		{raw: "disabled", unsafe: true, want: ModeDisabled, ok: true},
		{raw: "off", unsafe: true, ok: false},
	}
	for _, tc := range cases {
		m, err := ParseMode(tc.raw, tc.unsafe)
		if tc.ok != (err == nil) {
			t.Fatalf("raw=%q unsafe=%v err=%v", tc.raw, tc.unsafe, err)
		}
		if m != tc.want {
			t.Fatalf("raw=%q mode=%q", tc.raw, m)
		}
	}
}

func TestAuthorize_Modes(t *testing.T) {
	model, policy := writeFixture(t, exactModel, "p, role:catalog-viewer, global, geo.colonies, read\n")

	cases := []struct {
		mode         Mode
		action       string
		wantAllowed  bool
		wantEnforced bool
	}{
		{mode: ModeEnforce, action: ActionRead, wantAllowed: true, wantEnforced: true},
		{mode: ModeEnforce, action: ActionAdmin, wantAllowed: false, wantEnforced: true},
		{mode: ModeShadow, action: ActionRead, wantAllowed: true, wantEnforced: false},
		{mode: ModeShadow, action: ActionAdmin, wantAllowed: false, wantEnforced: false},
		{mode: ModeDisabled, action: ActionAdmin, wantAllowed: true, wantEnforced: false},
	}
	for _, tc := range cases {
		a, err := NewAuthorizer(model, policy, tc.mode)
		if err != nil {
			t.Fatalf("mode=%s err=%v", tc.mode, err)
		}
		if a.Mode() != tc.mode {
			t.Fatalf("mode=%s got=%s", tc.mode, a.Mode())
		}
		allowed, enforced, err := a.Authorize("role:catalog-viewer", DomainGlobal, ObjectGeoColonies, tc.action)
		if err != nil {
			t.Fatalf("mode=%s err=%v", tc.mode, err)
		}
		if allowed != tc.wantAllowed || enforced != tc.wantEnforced {
			t.Fatalf("mode=%s action=%s allowed=%v enforced=%v", tc.mode, tc.action, allowed, enforced)
		}
	}
}

func TestNewAuthorizer_LoadErrors(t *testing.T) {
	model, _ := writeFixture(t, exactModel, "")

	badModel, policy := writeFixture(t, "nope", "")
	if _, err := NewAuthorizer(badModel, policy, ModeEnforce); err == nil {
		t.Fatal("expected model error")
	}
	if _, err := NewAuthorizer(model, filepath.Join(t.TempDir(), "missing.csv"), ModeEnforce); err == nil {
		t.Fatal("expected missing policy error")
	}
	if _, err := NewAuthorizer(model, t.TempDir(), ModeEnforce); err == nil {
		t.Fatal("expected policy dir error")
	}
}

func TestNewAuthorizer_RejectsUnknownPolicyRules(t *testing.T) {
	cases := map[string]string{
		"subject": "p, catalog-admin, global, menu.menus, admin\n",
		"domain":  "p, role:catalog-admin, tenant-1, menu.menus, admin\n",
		"object":  "p, role:catalog-admin, global, menu.items, admin\n",
		"action":  "p, role:catalog-admin, global, menu.menus, write\n",
	}
	for name, policy := range cases {
		model, policyPath := writeFixture(t, exactModel, policy)
		if _, err := NewAuthorizer(model, policyPath, ModeEnforce); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNewAuthorizer_RepoPolicy(t *testing.T) {
	dir := filepath.Join("..", "..", "config", "access")
	a, err := NewAuthorizer(filepath.Join(dir, "model.conf"), filepath.Join(dir, "policy.csv"), ModeEnforce)
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	admin := SubjectFromRoleSlug(RoleAdmin)
	viewer := SubjectFromRoleSlug(RoleViewer)
	for _, obj := range Objects {
		if obj == ObjectLogAdminFiles {
			continue
		}
		if ok, _, err := a.Authorize(viewer, DomainGlobal, obj, ActionRead); err != nil || !ok {
			t.Fatalf("viewer read %s: ok=%v err=%v", obj, ok, err)
		}
		if ok, _, err := a.Authorize(admin, DomainGlobal, obj, ActionRead); err != nil || !ok {
			t.Fatalf("admin read %s: ok=%v err=%v", obj, ok, err)
		}
	}
	if ok, _, _ := a.Authorize(viewer, DomainGlobal, ObjectMenuMenus, ActionAdmin); ok {
		t.Fatal("viewer must not administer menus")
	}
	if ok, _, _ := a.Authorize(viewer, DomainGlobal, ObjectLogAdminFiles, ActionRead); ok {
		t.Fatal("viewer must not read log files")
	}
	if ok, _, _ := a.Authorize(admin, DomainGlobal, ObjectLogAdminFiles, ActionAdmin); !ok {
		t.Fatal("admin must administer log files")
	}
	if ok, _, _ := a.Authorize(SubjectFromRoleSlug(""), DomainGlobal, ObjectMenuMenus, ActionRead); ok {
		t.Fatal("anonymous must be denied")
	}
}

func TestSubjectFromRoleSlug(t *testing.T) {
	cases := map[string]string{
		"":                 "role:anonymous",
		"  ":               "role:anonymous",
		"Catalog-Admin":    "role:catalog-admin",
		" catalog-viewer ": "role:catalog-viewer",
	}
	for in, want := range cases {
		if got := SubjectFromRoleSlug(in); got != want {
			t.Fatalf("in=%q got=%q want=%q", in, got, want)
		}
	}
}

func TestAuthorize_UnknownMode(t *testing.T) {
	a := &Authorizer{mode: Mode("nope")}
	if _, _, err := a.Authorize("role:x", "d", "o", "a"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAuthorize_MatcherError(t *testing.T) {
	broken := `
[request_definition]
r = sub, dom, obj, act
[policy_definition]
p = sub, dom, obj, act
[policy_effect]
e = some(where (p.eft == allow))
[matchers]
m = r.sub ==
`
	model, policy := writeFixture(t, broken, "p, role:catalog-admin, global, jobcatalog.categories, read\n")

	for _, mode := range []Mode{ModeShadow, ModeEnforce} {
		a, err := NewAuthorizer(model, policy, mode)
		if err != nil {
			t.Fatalf("mode=%s err=%v", mode, err)
		}
		allowed, enforced, err := a.Authorize("role:catalog-admin", DomainGlobal, ObjectJobCatalogCategories, ActionRead)
		if err == nil || allowed {
			t.Fatalf("mode=%s allowed=%v err=%v", mode, allowed, err)
		}
		if enforced != (mode == ModeEnforce) {
			t.Fatalf("mode=%s enforced=%v", mode, enforced)
		}
	}
}
