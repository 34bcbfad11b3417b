package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/repository"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

var errStoreDown = errors.New("connection refused")

// memoryCache is a CacheRepository backed by a map of JSON blobs.
type memoryCache struct {
	entries  map[string][]byte
	deleted  []string
	getErr   error
	getCalls int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.getCalls++
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func enabledCache(repo *memoryCache) *CacheService {
	return NewCacheService(repo, nil, time.Minute, nil, true)
}

type fakeEmployeeRepo struct {
	items      []models.Employee
	lastFilter models.Predicate
	nextID     int64
	err        error
}

func (f *fakeEmployeeRepo) List(ctx context.Context, p models.Predicate) ([]models.Employee, error) {
	f.lastFilter = p
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Employee, 0, len(f.items))
	for _, e := range f.items {
		if p.Field == "department" && e.Department != p.Value {
			continue
		}
		if p.Field == "status" && e.Status != p.Value {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			e := f.items[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *models.Employee) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	e.ID = f.nextID
	f.items = append(f.items, *e)
	return nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	for i := range f.items {
		if f.items[i].ID == e.ID {
			f.items[i] = *e
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeCourseRepo struct {
	items []models.Course
	err   error
}

func (f *fakeCourseRepo) List(ctx context.Context, p models.Predicate) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Course(nil), f.items...), nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *models.Course) error {
	c.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, c *models.Course) error {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = *c
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeLeadRepo struct {
	items      []models.Lead
	lastFilter models.Predicate
	err        error
}

func (f *fakeLeadRepo) List(ctx context.Context, p models.Predicate) ([]models.Lead, error) {
	f.lastFilter = p
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Lead(nil), f.items...), nil
}

func (f *fakeLeadRepo) FindByID(ctx context.Context, id int64) (*models.Lead, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			l := f.items[i]
			return &l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLeadRepo) Create(ctx context.Context, l *models.Lead) error {
	l.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *l)
	return nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, l *models.Lead) error {
	for i := range f.items {
		if f.items[i].ID == l.ID {
			f.items[i] = *l
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeLeadRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeStudentRepo struct {
	items      []models.Student
	payments   []models.PaymentRecord
	lastFilter models.Predicate
	created    []models.Student
	updated    []models.Student
	err        error
}

func (f *fakeStudentRepo) List(ctx context.Context, p models.Predicate) ([]models.Student, error) {
	f.lastFilter = p
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Student(nil), f.items...), nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, s *models.Student) error {
	if f.err != nil {
		return f.err
	}
	s.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *s)
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, s *models.Student) error {
	for i := range f.items {
		if f.items[i].ID == s.ID {
			f.items[i] = *s
			f.updated = append(f.updated, *s)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeFinancialRepo struct {
	items      []models.FinancialPeriod
	lastFilter models.Predicate
	err        error
}

func (f *fakeFinancialRepo) List(ctx context.Context, p models.Predicate) ([]models.FinancialPeriod, error) {
	f.lastFilter = p
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.FinancialPeriod, 0, len(f.items))
	for _, period := range f.items {
		if p.Field == "is_forecast" && period.IsForecast != p.Value {
			continue
		}
		out = append(out, period)
	}
	return out, nil
}

func (f *fakeFinancialRepo) FindByID(ctx context.Context, id int64) (*models.FinancialPeriod, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			p := f.items[i]
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFinancialRepo) Create(ctx context.Context, p *models.FinancialPeriod) error {
	if f.err != nil {
		return f.err
	}
	p.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeFinancialRepo) Update(ctx context.Context, p *models.FinancialPeriod) error {
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeFinancialRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// ApplyPayment mimics the transactional repository: the stored row only
// changes when the mutation succeeds.
func (f *fakeStudentRepo) ApplyPayment(ctx context.Context, payment *models.PaymentRecord, mutate repository.PaymentMutation) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].ID != payment.StudentID {
			continue
		}
		working := f.items[i]
		payment.ID = int64(len(f.payments) + 1)
		if err := mutate(&working, *payment); err != nil {
			return nil, err
		}
		f.payments = append(f.payments, *payment)
		f.items[i] = working
		return &working, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) RevertPayment(ctx context.Context, paymentID int64, mutate repository.PaymentMutation) (*models.Student, error) {
	for p := range f.payments {
		payment := f.payments[p]
		if payment.ID != paymentID {
			continue
		}
		for i := range f.items {
			if f.items[i].ID != payment.StudentID {
				continue
			}
			working := f.items[i]
			if err := mutate(&working, payment); err != nil {
				return nil, err
			}
			f.payments = append(f.payments[:p], f.payments[p+1:]...)
			f.items[i] = working
			return &working, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.PaymentRecord, error) {
	out := []models.PaymentRecord{}
	for _, p := range f.payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}
