package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory database shared by every unit of work of a test.
// It interprets the specification types the services use and enforces the
// same unique constraints as the schema.
type memStore struct {
	mu sync.Mutex

	users       map[uuid.UUID]*entity.User
	courses     map[uuid.UUID]*entity.Course
	payments    map[uuid.UUID]*entity.CoursePayment
	coupons     map[uuid.UUID]*entity.CourseCoupon
	usages      map[uuid.UUID]*entity.CouponUsage
	enrollments map[uuid.UUID]*entity.CourseEnrollment
	problems    map[uuid.UUID]*entity.Problem
	submissions map[uuid.UUID]*entity.JudgeSubmission
	rewardTxs   map[uuid.UUID]*entity.RewardTransaction
	configs     map[uuid.UUID]*entity.RewardConfig
	stats       map[uuid.UUID]*entity.UserStats

	problemTotals map[uuid.UUID]int
	problemSolved map[uuid.UUID]int

	// fail makes the named repository method return the error.
	fail map[string]error

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]*entity.User{},
		courses:       map[uuid.UUID]*entity.Course{},
		payments:      map[uuid.UUID]*entity.CoursePayment{},
		coupons:       map[uuid.UUID]*entity.CourseCoupon{},
		usages:        map[uuid.UUID]*entity.CouponUsage{},
		enrollments:   map[uuid.UUID]*entity.CourseEnrollment{},
		problems:      map[uuid.UUID]*entity.Problem{},
		submissions:   map[uuid.UUID]*entity.JudgeSubmission{},
		rewardTxs:     map[uuid.UUID]*entity.RewardTransaction{},
		configs:       map[uuid.UUID]*entity.RewardConfig{},
		stats:         map[uuid.UUID]*entity.UserStats{},
		problemTotals: map[uuid.UUID]int{},
		problemSolved: map[uuid.UUID]int{},
		fail:          map[string]error{},
	}
}

func (s *memStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUoW{store: s}
}

func (s *memStore) failure(op string) error {
	return s.fail[op]
}

type memSnapshot struct {
	users       map[uuid.UUID]*entity.User
	courses     map[uuid.UUID]*entity.Course
	payments    map[uuid.UUID]*entity.CoursePayment
	coupons     map[uuid.UUID]*entity.CourseCoupon
	usages      map[uuid.UUID]*entity.CouponUsage
	enrollments map[uuid.UUID]*entity.CourseEnrollment
	submissions map[uuid.UUID]*entity.JudgeSubmission
	rewardTxs   map[uuid.UUID]*entity.RewardTransaction
	stats       map[uuid.UUID]*entity.UserStats
	totals      map[uuid.UUID]int
	solved      map[uuid.UUID]int
}

func (s *memStore) snapshot() *memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memSnapshot{
		users:       cloneTable(s.users),
		courses:     cloneTable(s.courses),
		payments:    cloneTable(s.payments),
		coupons:     cloneTable(s.coupons),
		usages:      cloneTable(s.usages),
		enrollments: cloneTable(s.enrollments),
		submissions: cloneTable(s.submissions),
		rewardTxs:   cloneTable(s.rewardTxs),
		stats:       cloneTable(s.stats),
		totals:      cloneCounters(s.problemTotals),
		solved:      cloneCounters(s.problemSolved),
	}
}

func (s *memStore) restore(snap *memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.courses = snap.courses
	s.payments = snap.payments
	s.coupons = snap.coupons
	s.usages = snap.usages
	s.enrollments = snap.enrollments
	s.submissions = snap.submissions
	s.rewardTxs = snap.rewardTxs
	s.stats = snap.stats
	s.problemTotals = snap.totals
	s.problemSolved = snap.solved
}

// --- Unit of work ---

type memUoW struct {
	store *memStore
	snap  *memSnapshot
}

func (u *memUoW) Begin(ctx context.Context) error {
	if u.snap != nil {
		return errors.New("transaction already started")
	}
	u.snap = u.store.snapshot()
	return nil
}

func (u *memUoW) Commit() error {
	if u.snap == nil {
		return errors.New("no transaction to commit")
	}
	u.snap = nil
	u.store.commits++
	return nil
}

func (u *memUoW) Rollback() error {
	if u.snap == nil {
		return nil
	}
	u.store.restore(u.snap)
	u.snap = nil
	u.store.rollbacks++
	return nil
}

func (u *memUoW) UserRepository() contract.UserRepository { return memUsers{u.store} }
func (u *memUoW) CourseRepository() contract.CourseRepository { return memCourses{u.store} }
func (u *memUoW) PaymentRepository() contract.PaymentRepository { return memPayments{u.store} }
func (u *memUoW) CouponRepository() contract.CouponRepository { return memCoupons{u.store} }
func (u *memUoW) CouponUsageRepository() contract.CouponUsageRepository { return memUsages{u.store} }
func (u *memUoW) EnrollmentRepository() contract.EnrollmentRepository { return memEnrollments{u.store} }
func (u *memUoW) ProblemRepository() contract.ProblemRepository { return memProblems{u.store} }
func (u *memUoW) SubmissionRepository() contract.SubmissionRepository { return memSubmissions{u.store} }
func (u *memUoW) RewardRepository() contract.RewardRepository { return memRewards{u.store} }

// --- Users and courses ---

type memUsers struct{ s *memStore }

func (r memUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.users, specs)), nil
}

type memCourses struct{ s *memStore }

func (r memCourses) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.courses, specs)), nil
}

func (r memCourses) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return selectRows(r.s.courses, specs), nil
}

func (r memCourses) IncrementStudents(ctx context.Context, courseID uuid.UUID, delta int) error {
	if err := r.s.failure("IncrementStudents"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.courses[courseID]; ok {
		c.Students += delta
		if c.Students < 0 {
			c.Students = 0
		}
	}
	return nil
}

// --- Payments ---

type memPayments struct{ s *memStore }

func (r memPayments) Create(ctx context.Context, p *entity.CoursePayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.PaymentStatus == entity.PaymentStatusPending {
		for _, existing := range r.s.payments {
			if existing.UserId == p.UserId && existing.CourseId == p.CourseId && existing.PaymentStatus == entity.PaymentStatusPending {
				return apperror.Conflict("A pending payment already exists for this course")
			}
		}
	}
	if p.TransactionId != nil {
		for _, existing := range r.s.payments {
			if existing.TransactionId != nil && *existing.TransactionId == *p.TransactionId {
				return apperror.Conflict("Duplicate transaction id")
			}
		}
	}
	stamp(&p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	r.s.payments[p.Id] = cloneOf(p)
	return nil
}

func (r memPayments) Update(ctx context.Context, p *entity.CoursePayment, expected entity.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.payments[p.Id]
	if !ok || stored.PaymentStatus != expected {
		return apperror.Conflict("Payment was modified concurrently")
	}
	p.UpdatedAt = time.Now()
	r.s.payments[p.Id] = cloneOf(p)
	return nil
}

func (r memPayments) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CoursePayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := first(selectRows(r.s.payments, specs))
	if p != nil {
		r.s.decorate(p)
	}
	return p, nil
}

func (r memPayments) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := selectRows(r.s.payments, specs)
	for _, p := range rows {
		r.s.decorate(p)
	}
	return rows, nil
}

func (r memPayments) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error) {
	rows, _ := r.FindAll(ctx, specs...)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range rows {
		if u, ok := r.s.users[p.UserId]; ok {
			p.UserName = u.FullName
			p.UserEmail = u.Email
		}
	}
	return rows, nil
}

func (r memPayments) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(selectRows(r.s.payments, specs))), nil
}

func (r memPayments) SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, p := range selectRows(r.s.payments, specs) {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r memPayments) FindCompletedWithoutEnrollment(ctx context.Context, limit int) ([]*entity.CoursePayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CoursePayment
	for _, p := range selectRows(r.s.payments, []specification.Specification{specification.ByPaymentStatus(entity.PaymentStatusCompleted)}) {
		if r.s.enrollmentFor(p.UserId, p.CourseId) == nil {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) decorate(p *entity.CoursePayment) {
	if c, ok := s.courses[p.CourseId]; ok {
		p.CourseTitle = c.Title
	}
}

func (s *memStore) enrollmentFor(userID, courseID uuid.UUID) *entity.CourseEnrollment {
	for _, e := range s.enrollments {
		if e.UserId == userID && e.CourseId == courseID {
			return e
		}
	}
	return nil
}

// --- Coupons ---

type memCoupons struct{ s *memStore }

func (r memCoupons) Create(ctx context.Context, c *entity.CourseCoupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.coupons {
		if existing.Code == c.Code {
			return apperror.Conflict("Coupon code already exists")
		}
	}
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	stamp(&c.CreatedAt)
	r.s.coupons[c.Id] = cloneOf(c)
	return nil
}

func (r memCoupons) Update(ctx context.Context, c *entity.CourseCoupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.coupons[c.Id]
	if !ok {
		return nil
	}
	updated := cloneOf(c)
	updated.UsedCount = stored.UsedCount
	r.s.coupons[c.Id] = updated
	return nil
}

func (r memCoupons) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseCoupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.coupons, specs)), nil
}

func (r memCoupons) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseCoupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return selectRows(r.s.coupons, specs), nil
}

func (r memCoupons) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(selectRows(r.s.coupons, specs))), nil
}

func (r memCoupons) IncrementUsage(ctx context.Context, couponID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[couponID]
	if !ok || !c.HasRemainingUses() {
		return apperror.Validation(entity.ErrCouponExhausted.Error())
	}
	c.UsedCount++
	return nil
}

type memUsages struct{ s *memStore }

func (r memUsages) Create(ctx context.Context, u *entity.CouponUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.usages {
		if existing.UserId == u.UserId && existing.CouponId == u.CouponId && existing.PaymentId == u.PaymentId {
			return apperror.Conflict("Coupon already used for this payment")
		}
	}
	r.s.usages[u.Id] = cloneOf(u)
	return nil
}

func (r memUsages) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CouponUsage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.usages, specs)), nil
}

// --- Enrollments ---

type memEnrollments struct{ s *memStore }

func (r memEnrollments) Create(ctx context.Context, e *entity.CourseEnrollment) error {
	if err := r.s.failure("CreateEnrollment"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.enrollmentFor(e.UserId, e.CourseId) != nil {
		return apperror.Conflict("Already enrolled in this course")
	}
	stamp(&e.CreatedAt)
	r.s.enrollments[e.Id] = cloneOf(e)
	return nil
}

func (r memEnrollments) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.enrollments, specs)), nil
}

func (r memEnrollments) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseEnrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := selectRows(r.s.enrollments, specs)
	for _, e := range rows {
		if c, ok := r.s.courses[e.CourseId]; ok {
			e.CourseTitle = c.Title
		}
	}
	return rows, nil
}

func (r memEnrollments) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.enrollments, id)
	return nil
}

func (r memEnrollments) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.enrollments {
		if e.PaymentId != nil && *e.PaymentId == paymentID {
			delete(r.s.enrollments, id)
			n++
		}
	}
	return n, nil
}

// --- Judge ---

type memProblems struct{ s *memStore }

func (r memProblems) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Problem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.problems, specs)), nil
}

func (r memProblems) RecordSubmission(ctx context.Context, problemID uuid.UUID, solved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.problemTotals[problemID]++
	if solved {
		r.s.problemSolved[problemID]++
	}
	return nil
}

type memSubmissions struct{ s *memStore }

func (r memSubmissions) Create(ctx context.Context, sub *entity.JudgeSubmission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&sub.CreatedAt)
	r.s.submissions[sub.Id] = cloneOf(sub)
	return nil
}

func (r memSubmissions) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JudgeSubmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return selectRows(r.s.submissions, specs), nil
}

// --- Rewards ---

type memRewards struct{ s *memStore }

func (r memRewards) CreateTransaction(ctx context.Context, tx *entity.RewardTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stamp(&tx.CreatedAt)
	r.s.rewardTxs[tx.Id] = cloneOf(tx)
	return nil
}

func (r memRewards) FindTransaction(ctx context.Context, specs ...specification.Specification) (*entity.RewardTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return first(selectRows(r.s.rewardTxs, specs)), nil
}

func (r memRewards) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.RewardTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return selectRows(r.s.rewardTxs, specs), nil
}

func (r memRewards) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(selectRows(r.s.rewardTxs, specs))), nil
}

func (r memRewards) StatsByType(ctx context.Context, userID uuid.UUID) ([]contract.RewardTypeStat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byType := map[entity.RewardTransactionType]*contract.RewardTypeStat{}
	for _, tx := range r.s.rewardTxs {
		if tx.UserId != userID {
			continue
		}
		st, ok := byType[tx.TransactionType]
		if !ok {
			st = &contract.RewardTypeStat{TransactionType: tx.TransactionType}
			byType[tx.TransactionType] = st
		}
		st.Count++
		st.TotalPoints += int64(tx.Points)
	}
	out := make([]contract.RewardTypeStat, 0, len(byType))
	for _, st := range byType {
		out = append(out, *st)
	}
	return out, nil
}

func (r memRewards) FindConfig(ctx context.Context, key string) (*entity.RewardConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.configs {
		if c.ConfigKey == key && c.IsActive {
			return cloneOf(c), nil
		}
	}
	return nil, nil
}

func (r memRewards) FindStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.stats {
		if st.UserId == userID {
			return cloneOf(st), nil
		}
	}
	return nil, nil
}

func (r memRewards) AddPoints(ctx context.Context, userID uuid.UUID, delta int, solvedProblem bool) (int, error) {
	if err := r.s.failure("AddPoints"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st *entity.UserStats
	for _, existing := range r.s.stats {
		if existing.UserId == userID {
			st = existing
		}
	}
	if st == nil {
		st = &entity.UserStats{Id: uuid.New(), UserId: userID}
		r.s.stats[st.Id] = st
	}
	st.ApplyPoints(delta)
	if solvedProblem {
		st.ProblemsSolved++
	}
	return st.RewardPoints, nil
}

// --- Specification interpreter ---

func selectRows[T any](table map[uuid.UUID]*T, specs []specification.Specification) []*T {
	var order *specification.OrderBy
	var page *specification.Pagination
	var filters []specification.Specification
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.OrderBy:
			order = &sp
		case specification.Pagination:
			page = &sp
		default:
			filters = append(filters, s)
		}
	}

	rows := make([]*T, 0, len(table))
	for _, row := range table {
		ok := true
		for _, f := range filters {
			if !matchSpec(row, f) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, cloneOf(row))
		}
	}

	field, desc := "created_at", false
	if order != nil {
		field, desc = order.Field, order.Desc
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ti, _ := timeField(rows[i], field)
		tj, _ := timeField(rows[j], field)
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		return fmt.Sprint(column(rows[i], "id")) < fmt.Sprint(column(rows[j], "id"))
	})

	if page != nil {
		if page.Offset >= len(rows) {
			return []*T{}
		}
		end := page.Offset + page.Limit
		if page.Limit <= 0 || end > len(rows) {
			end = len(rows)
		}
		rows = rows[page.Offset:end]
	}
	return rows
}

func matchSpec(row interface{}, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return sameValue(column(row, "id"), sp.ID)
	case specification.ByIDs:
		for _, id := range sp.IDs {
			if sameValue(column(row, "id"), id) {
				return true
			}
		}
		return false
	case specification.FilterBy:
		return sameValue(column(row, sp.Field), sp.Value)
	case specification.FilterIn:
		values := reflect.ValueOf(sp.Values)
		for i := 0; i < values.Len(); i++ {
			if sameValue(column(row, sp.Field), values.Index(i).Interface()) {
				return true
			}
		}
		return false
	case specification.TimeRange:
		t, ok := timeField(row, sp.Field)
		if !ok {
			return false
		}
		if !sp.From.IsZero() && t.Before(sp.From) {
			return false
		}
		if !sp.To.IsZero() && !t.Before(sp.To) {
			return false
		}
		return true
	case specification.Purchasable:
		c := row.(*entity.Course)
		return c.IsPurchasable()
	case specification.ActiveCoupons:
		c := row.(*entity.CourseCoupon)
		return c.IsActive && !c.ValidFrom.After(sp.Now) && !c.ValidUntil.Before(sp.Now)
	}
	panic(fmt.Sprintf("memStore: unsupported specification %T", spec))
}

// column reads the struct field backing a snake_case column name.
func column(row interface{}, name string) interface{} {
	v, ok := lookup(row, name)
	if !ok {
		panic(fmt.Sprintf("memStore: %T has no column %s", row, name))
	}
	return v
}

func lookup(row interface{}, name string) (interface{}, bool) {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	v := reflect.ValueOf(row).Elem().FieldByName(strings.Join(parts, ""))
	if !v.IsValid() {
		return nil, false
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}
	return v.Interface(), true
}

func sameValue(stored, wanted interface{}) bool {
	if stored == nil {
		return wanted == nil
	}
	return fmt.Sprint(stored) == fmt.Sprint(wanted)
}

func timeField(row interface{}, name string) (time.Time, bool) {
	v, _ := lookup(row, name)
	t, ok := v.(time.Time)
	return t, ok
}

// --- helpers ---

func first[T any](rows []*T) *T {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func cloneOf[T any](v *T) *T {
	c := *v
	if p, ok := any(&c).(*entity.CoursePayment); ok && p.Metadata != nil {
		meta := make(map[string]interface{}, len(p.Metadata))
		for k, val := range p.Metadata {
			meta[k] = val
		}
		p.Metadata = meta
	}
	return &c
}

func cloneTable[T any](table map[uuid.UUID]*T) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(table))
	for k, v := range table {
		out[k] = cloneOf(v)
	}
	return out
}

func cloneCounters(m map[uuid.UUID]int) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var stampClock = struct {
	sync.Mutex
	last time.Time
}{}

// stamp fills a zero timestamp with a strictly increasing time.
func stamp(t *time.Time) {
	if !t.IsZero() {
		return
	}
	stampClock.Lock()
	defer stampClock.Unlock()
	now := time.Now()
	if !now.After(stampClock.last) {
		now = stampClock.last.Add(time.Microsecond)
	}
	stampClock.last = now
	*t = now
}

// --- Event recorder ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}
