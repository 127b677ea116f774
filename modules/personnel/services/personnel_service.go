package services

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/latest"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var (
	rfcPattern  = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)
	curpPattern = regexp.MustCompile(`^[A-Z][AEIOUX][A-Z]{2}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`)
	orgPattern  = regexp.MustCompile(`^[A-Z0-9]{1,6}$`)
)

type PersonnelService struct {
	afiliados ports.AfiliadoStore
	history   ports.OrgHistoryStore
	logger    logrus.FieldLogger
}

func NewPersonnelService(afiliados ports.AfiliadoStore, history ports.OrgHistoryStore, logger logrus.FieldLogger) *PersonnelService {
	return &PersonnelService{afiliados: afiliados, history: history, logger: logging.OrNop(logger)}
}

func (s *PersonnelService) ListAfiliados(ctx context.Context, f types.AfiliadoFilter) ([]types.Afiliado, error) {
	if err := validation.New().
		Field("limit", f.Limit, validation.Between(0, maxPageSize)).
		Field("offset", f.Offset, validation.Between(0, 1<<31-1)).
		Field("q", f.Query, validation.MaxLen(60)).
		Err(); err != nil {
		return nil, err
	}
	if f.Limit == 0 {
		f.Limit = defaultPageSize
	}
	return s.afiliados.ListAfiliados(ctx, f)
}

func (s *PersonnelService) GetAfiliado(ctx context.Context, num int) (types.Afiliado, error) {
	return s.afiliados.GetAfiliado(ctx, num)
}

func (s *PersonnelService) CreateAfiliado(ctx context.Context, in types.AfiliadoInput) (types.Afiliado, error) {
	a, err := parseAfiliado(in)
	if err != nil {
		return types.Afiliado{}, err
	}
	if err := s.afiliados.CreateAfiliado(ctx, a); err != nil {
		return types.Afiliado{}, err
	}
	s.logger.WithField("employee_number", a.EmployeeNumber).Info("afiliado created")
	return a, nil
}

func (s *PersonnelService) UpdateAfiliado(ctx context.Context, num int, in types.AfiliadoInput) (types.Afiliado, error) {
	in.EmployeeNumber = num
	a, err := parseAfiliado(in)
	if err != nil {
		return types.Afiliado{}, err
	}
	if err := s.afiliados.UpdateAfiliado(ctx, a); err != nil {
		return types.Afiliado{}, err
	}
	s.logger.WithField("employee_number", num).Info("afiliado updated")
	return a, nil
}

func (s *PersonnelService) DeleteAfiliado(ctx context.Context, num int) error {
	if err := s.afiliados.DeleteAfiliado(ctx, num); err != nil {
		return err
	}
	s.logger.WithField("employee_number", num).Info("afiliado deleted")
	return nil
}

func (s *PersonnelService) OrgHistory(ctx context.Context, num int) ([]types.OrgRecord, error) {
	if _, err := s.afiliados.GetAfiliado(ctx, num); err != nil {
		return nil, err
	}
	records, err := s.history.ListOrgHistory(ctx, num)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b types.OrgRecord) int {
		if c := b.EffectiveDate.Compare(a.EffectiveDate); c != 0 {
			return c
		}
		return cmp.Compare(b.Sequence, a.Sequence)
	})
	return records, nil
}

// CurrentOrgRecord resolves the employee's active org record: greatest
// effective date, then greatest sequence, among rows matching f.
func (s *PersonnelService) CurrentOrgRecord(ctx context.Context, num int, f types.OrgFilter) (types.OrgRecord, error) {
	f, err := normalizeOrgFilter(f, false)
	if err != nil {
		return types.OrgRecord{}, err
	}
	records, err := s.history.ListOrgHistory(ctx, num)
	if err != nil {
		return types.OrgRecord{}, err
	}
	res := latest.Resolve(records, orgPredicates(f)...)
	if !res.Found {
		return types.OrgRecord{}, ports.ErrOrgRecordNotFound
	}
	if res.Ambiguous() {
		s.logger.WithFields(logrus.Fields{
			"employee_number": num,
			"effective_date":  res.Record.EffectiveDate.Format(time.DateOnly),
			"sequence":        res.Record.Sequence,
			"ties":            res.Ties,
		}).Warn("duplicate org history rows; picked smallest natural key")
	}
	return res.Record, nil
}

// Roster lists the current org record of every employee in an org unit.
// The store narrows rows with SQL; the resolver then settles duplicates so
// each employee appears once.
func (s *PersonnelService) Roster(ctx context.Context, f types.OrgFilter) ([]types.RosterEntry, error) {
	f, err := normalizeOrgFilter(f, true)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListOrgRoster(ctx, f)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[int][]types.RosterEntry)
	var order []int
	for _, e := range entries {
		if _, ok := byEmployee[e.EmployeeNumber]; !ok {
			order = append(order, e.EmployeeNumber)
		}
		byEmployee[e.EmployeeNumber] = append(byEmployee[e.EmployeeNumber], e)
	}
	slices.Sort(order)

	out := make([]types.RosterEntry, 0, len(order))
	for _, num := range order {
		res := latest.Resolve(byEmployee[num])
		if res.Ambiguous() {
			s.logger.WithFields(logrus.Fields{
				"employee_number": num,
				"ties":            res.Ties,
			}).Warn("duplicate org history rows in roster; picked smallest natural key")
		}
		out = append(out, res.Record)
	}
	return out, nil
}

func orgPredicates(f types.OrgFilter) []latest.Predicate[types.OrgRecord] {
	var preds []latest.Predicate[types.OrgRecord]
	if f.Org0 != "" {
		preds = append(preds, latest.Equal(func(r types.OrgRecord) string { return r.Org0 }, f.Org0))
	}
	if f.Org1 != "" {
		preds = append(preds, latest.Equal(func(r types.OrgRecord) string { return r.Org1 }, f.Org1))
	}
	preds = append(preds, latest.StatusIn(func(r types.OrgRecord) string { return r.Status }, f.Statuses...))
	return preds
}

func normalizeOrgFilter(f types.OrgFilter, requireOrg0 bool) (types.OrgFilter, error) {
	f.Org0 = strings.ToUpper(strings.TrimSpace(f.Org0))
	f.Org1 = strings.ToUpper(strings.TrimSpace(f.Org1))
	var statuses []string
	for _, st := range f.Statuses {
		st = strings.ToUpper(strings.TrimSpace(st))
		if st != "" && !slices.Contains(statuses, st) {
			statuses = append(statuses, st)
		}
	}
	if len(statuses) == 0 {
		statuses = slices.Clone(types.DefaultStatuses)
	}
	f.Statuses = statuses

	v := validation.New()
	if requireOrg0 {
		v.Field("org0", f.Org0, validation.Required())
	}
	v.Field("org0", f.Org0, validation.Pattern(orgPattern, "must be 1 to 6 upper-case letters or digits")).
		Field("org1", f.Org1, validation.Pattern(orgPattern, "must be 1 to 6 upper-case letters or digits"))
	for _, st := range f.Statuses {
		v.Field("status", st, validation.OneOf(types.StatusActive, types.StatusOnLeave, types.StatusBaja))
	}
	return f, v.Err()
}

func parseAfiliado(in types.AfiliadoInput) (types.Afiliado, error) {
	a := types.Afiliado{
		EmployeeNumber:  in.EmployeeNumber,
		FirstNames:      strings.TrimSpace(in.FirstNames),
		PaternalSurname: strings.TrimSpace(in.PaternalSurname),
		MaternalSurname: strings.TrimSpace(in.MaternalSurname),
		RFC:             strings.ToUpper(strings.TrimSpace(in.RFC)),
		CURP:            strings.ToUpper(strings.TrimSpace(in.CURP)),
		Status:          strings.ToUpper(strings.TrimSpace(in.Status)),
	}
	if a.Status == "" {
		a.Status = types.StatusActive
	}

	v := validation.New().
		Field("employee_number", a.EmployeeNumber, validation.Between(1, 1<<31-1)).
		Field("first_names", a.FirstNames, validation.Required(), validation.MaxLen(50)).
		Field("paternal_surname", a.PaternalSurname, validation.Required(), validation.MaxLen(50)).
		Field("maternal_surname", a.MaternalSurname, validation.MaxLen(50)).
		Field("rfc", a.RFC, validation.Required(), validation.Pattern(rfcPattern, "must be a valid RFC")).
		Field("curp", a.CURP, validation.Tag("len=18", validation.KindFormat, "must be 18 characters"), validation.Pattern(curpPattern, "must be a valid CURP")).
		Field("status", a.Status, validation.OneOf(types.StatusActive, types.StatusOnLeave, types.StatusBaja)).
		Field("hire_date", in.HireDate, validation.Required())

	if d := strings.TrimSpace(in.HireDate); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			v.Add("hire_date", validation.KindFormat, "must be YYYY-MM-DD")
		}
		a.HireDate = t
	}
	return a, v.Err()
}
