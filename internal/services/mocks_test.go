package services

import (
	"sort"
	"testing"
	"time"

	"fixer_backend/internal/email"
	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newGormDB wires gorm over sqlmock so code paths using db.Transaction
// run against real BEGIN/COMMIT handling. Repositories are faked at the
// interface level, so no other SQL ever reaches the mock.
func newGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open error: %v", err)
	}
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectTxRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

// --- user repository ---

type fakeUserRepo struct {
	users map[string]*models.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = f.clone(user)
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return f.clone(u), nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, emailAddr string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == emailAddr {
			return f.clone(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			return f.clone(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.ResetToken == token && u.ResetTokenExp != nil && u.ResetTokenExp.After(time.Now()) {
			return f.clone(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(db *gorm.DB, user *models.User) error {
	u, ok := f.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Email = user.Email
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.Role = user.Role
	u.Status = user.Status
	u.IsVerified = user.IsVerified
	u.VerificationToken = user.VerificationToken
	u.VerificationCode = user.VerificationCode
	u.CodeExpiresAt = user.CodeExpiresAt
	u.ResetToken = user.ResetToken
	u.ResetTokenExp = user.ResetTokenExp
	return nil
}

func (f *fakeUserRepo) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(db *gorm.DB, userID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetVerificationProof(db *gorm.DB, userID, token, code string, codeExpiresAt *time.Time) error {
	u, ok := f.users[userID]
	if !ok || u.IsVerified {
		return repositories.ErrUserNotFound
	}
	u.VerificationToken = token
	u.VerificationCode = code
	u.CodeExpiresAt = codeExpiresAt
	return nil
}

func (f *fakeUserRepo) ConsumeVerificationCode(db *gorm.DB, userID, code string, now time.Time) (int64, error) {
	u, ok := f.users[userID]
	if !ok || u.IsVerified {
		return 0, nil
	}
	if u.VerificationCode == "" || u.VerificationCode != code {
		return 0, nil
	}
	if u.CodeExpiresAt == nil || !u.CodeExpiresAt.After(now) {
		return 0, nil
	}
	u.IsVerified = true
	u.Status = models.UserStatusActive
	u.VerificationToken = ""
	u.VerificationCode = ""
	u.CodeExpiresAt = nil
	return 1, nil
}

func (f *fakeUserRepo) ConsumeVerificationToken(db *gorm.DB, userID, token string) (int64, error) {
	u, ok := f.users[userID]
	if !ok || u.IsVerified {
		return 0, nil
	}
	if u.VerificationToken == "" || u.VerificationToken != token {
		return 0, nil
	}
	u.IsVerified = true
	u.Status = models.UserStatusActive
	u.VerificationToken = ""
	u.VerificationCode = ""
	u.CodeExpiresAt = nil
	return 1, nil
}

func (f *fakeUserRepo) Delete(db *gorm.DB, userID string) error {
	if _, ok := f.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) FindWithFilter(db *gorm.DB, criteria repositories.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		if criteria.Role != "" && u.Role != criteria.Role {
			continue
		}
		if criteria.Status != "" && u.Status != criteria.Status {
			continue
		}
		out = append(out, *f.clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) GetRegistrationStats(db *gorm.DB) (*repositories.RegistrationStats, error) {
	stats := &repositories.RegistrationStats{ByRole: make(map[string]int64)}
	for _, u := range f.users {
		stats.Total++
		stats.ByRole[string(u.Role)]++
		if u.IsVerified {
			stats.VerifiedCount++
		}
	}
	stats.UnverifiedCount = stats.Total - stats.VerifiedCount
	return stats, nil
}

// stored returns the backing record for direct state manipulation.
func (f *fakeUserRepo) stored(t *testing.T, id string) *models.User {
	t.Helper()
	u, ok := f.users[id]
	if !ok {
		t.Fatalf("no stored user with id %s", id)
	}
	return u
}

// --- profile repository ---

type fakeProfileRepo struct {
	pros    map[string]*models.ProfessionalProfile // by user ID
	clients map[string]*models.ClientProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		pros:    make(map[string]*models.ProfessionalProfile),
		clients: make(map[string]*models.ClientProfile),
	}
}

func (f *fakeProfileRepo) CreateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	f.pros[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) CreateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	f.clients[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) FindProfessionalByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	p, ok := f.pros[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) FindClientByUserID(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	p, ok := f.clients[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error {
	if _, ok := f.pros[profile.UserID]; !ok {
		return repositories.ErrProfileNotFound
	}
	f.pros[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) UpdateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	if _, ok := f.clients[profile.UserID]; !ok {
		return repositories.ErrProfileNotFound
	}
	f.clients[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) SetApproved(db *gorm.DB, userID string, approved bool) error {
	p, ok := f.pros[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.IsApproved = approved
	return nil
}

func (f *fakeProfileRepo) UpdateRating(db *gorm.DB, userID string, avg float64, count int) error {
	p, ok := f.pros[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.RatingAvg = avg
	p.RatingCount = count
	return nil
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct {
	tokens map[string]*models.RefreshToken // by token value
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(db *gorm.DB, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeRefreshTokenRepo) FindByToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	return rt, nil
}

func (f *fakeRefreshTokenRepo) DeleteByToken(db *gorm.DB, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return repositories.ErrRefreshTokenNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteByUserID(db *gorm.DB, userID string) error {
	for k, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	var n int64
	for k, rt := range f.tokens {
		if rt.ExpiresAt.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- job repository ---

type fakeJobRepo struct {
	jobs map[string]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*models.Job)}
}

func (f *fakeJobRepo) Create(db *gorm.DB, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}
	job.CreatedAt = time.Now()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	c := *j
	return &c, nil
}

func (f *fakeJobRepo) Update(db *gorm.DB, job *models.Job) error {
	stored, ok := f.jobs[job.ID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	*stored = *job
	return nil
}

func (f *fakeJobRepo) FindWithFilter(db *gorm.DB, criteria repositories.JobFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if criteria.ClientID != "" && j.ClientID != criteria.ClientID {
			continue
		}
		if criteria.Status != "" && j.Status != criteria.Status {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) MarkAssigned(db *gorm.DB, jobID, professionalID string) (int64, error) {
	j, ok := f.jobs[jobID]
	if !ok {
		return 0, nil
	}
	if j.Status != models.JobStatusOpen && j.Status != models.JobStatusQuoted {
		return 0, nil
	}
	j.Status = models.JobStatusAssigned
	j.AssignedProID = &professionalID
	return 1, nil
}

func (f *fakeJobRepo) MarkQuoted(db *gorm.DB, jobID string) error {
	j, ok := f.jobs[jobID]
	if ok && j.Status == models.JobStatusOpen {
		j.Status = models.JobStatusQuoted
	}
	return nil
}

func (f *fakeJobRepo) Complete(db *gorm.DB, jobID string, at time.Time) (int64, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.Status != models.JobStatusAssigned {
		return 0, nil
	}
	j.Status = models.JobStatusCompleted
	j.CompletedAt = &at
	return 1, nil
}

func (f *fakeJobRepo) Cancel(db *gorm.DB, jobID string) (int64, error) {
	j, ok := f.jobs[jobID]
	if !ok {
		return 0, nil
	}
	switch j.Status {
	case models.JobStatusOpen, models.JobStatusQuoted, models.JobStatusAssigned:
		j.Status = models.JobStatusCancelled
		return 1, nil
	}
	return 0, nil
}

func (f *fakeJobRepo) ExpireStale(db *gorm.DB, olderThan time.Time) (int64, error) {
	var n int64
	for _, j := range f.jobs {
		if (j.Status == models.JobStatusOpen || j.Status == models.JobStatusQuoted) && j.CreatedAt.Before(olderThan) {
			j.Status = models.JobStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeJobRepo) IncrementViews(db *gorm.DB, jobID string) error {
	if j, ok := f.jobs[jobID]; ok {
		j.Views++
	}
	return nil
}

// --- quote repository ---

type fakeQuoteRepo struct {
	quotes map[string]*models.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]*models.Quote)}
}

func (f *fakeQuoteRepo) Create(db *gorm.DB, quote *models.Quote) error {
	for _, q := range f.quotes {
		if q.JobID == quote.JobID && q.ProfessionalID == quote.ProfessionalID {
			return repositories.ErrQuoteAlreadyExists
		}
	}
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	quote.CreatedAt = time.Now()
	f.quotes[quote.ID] = quote
	return nil
}

func (f *fakeQuoteRepo) FindByID(db *gorm.DB, id string) (*models.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, repositories.ErrQuoteNotFound
	}
	c := *q
	return &c, nil
}

func (f *fakeQuoteRepo) FindByJob(db *gorm.DB, jobID string) ([]models.Quote, error) {
	var out []models.Quote
	for _, q := range f.quotes {
		if q.JobID == jobID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuoteRepo) FindByProfessional(db *gorm.DB, professionalID string, page, pageSize int) ([]models.Quote, int64, error) {
	var out []models.Quote
	for _, q := range f.quotes {
		if q.ProfessionalID == professionalID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuoteRepo) Accept(db *gorm.DB, quote *models.Quote, jobRepo repositories.JobRepository) error {
	q, ok := f.quotes[quote.ID]
	if !ok || q.Status != models.QuoteStatusPending {
		return repositories.ErrQuoteNotPending
	}

	rows, err := jobRepo.MarkAssigned(db, q.JobID, q.ProfessionalID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repositories.ErrQuoteNotPending
	}

	q.Status = models.QuoteStatusAccepted
	for _, sibling := range f.quotes {
		if sibling.JobID == q.JobID && sibling.ID != q.ID && sibling.Status == models.QuoteStatusPending {
			sibling.Status = models.QuoteStatusRejected
		}
	}
	return nil
}

func (f *fakeQuoteRepo) Withdraw(db *gorm.DB, quoteID, professionalID string) (int64, error) {
	q, ok := f.quotes[quoteID]
	if !ok || q.ProfessionalID != professionalID || q.Status != models.QuoteStatusPending {
		return 0, nil
	}
	q.Status = models.QuoteStatusWithdrawn
	return 1, nil
}

// --- notification repository ---

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(db *gorm.DB, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) FindByUser(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(db *gorm.DB, notificationID, userID string) error {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// byType returns the notifications of one kind sent to a user.
func (f *fakeNotificationRepo) byType(userID string, kind models.NotificationType) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}

// --- email provider ---

type fakeEmailProvider struct {
	failSend error

	sentCodes  []string
	sentLinks  []string
	resetLinks []string
}

func (f *fakeEmailProvider) Send(msg *email.Email) error { return f.failSend }

func (f *fakeEmailProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	return f.failSend
}

func (f *fakeEmailProvider) SendVerificationCode(to, code string) error {
	if f.failSend != nil {
		return f.failSend
	}
	f.sentCodes = append(f.sentCodes, code)
	return nil
}

func (f *fakeEmailProvider) SendVerificationLink(to, link string) error {
	if f.failSend != nil {
		return f.failSend
	}
	f.sentLinks = append(f.sentLinks, link)
	return nil
}

func (f *fakeEmailProvider) SendPasswordReset(to, link string) error {
	if f.failSend != nil {
		return f.failSend
	}
	f.resetLinks = append(f.resetLinks, link)
	return nil
}

func (f *fakeEmailProvider) Validate() error { return nil }
func (f *fakeEmailProvider) Close() error    { return nil }
