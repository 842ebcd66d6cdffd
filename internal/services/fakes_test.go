package services

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/models"
)

const testBcryptCost = 4

func testCipher(t *testing.T) *helpers.Cipher {
	t.Helper()
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	c, err := helpers.NewCipher(key)
	require.NoError(t, err)
	return c
}

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	hash, err := helpers.HashSecret(secret, testBcryptCost)
	require.NoError(t, err)
	return hash
}

// fakeUserRepo is an in-memory models.UserRepo keyed by ObjectID.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) get(id primitive.ObjectID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) findOne(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if !u.IsDeleted && match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.findOne(func(u *models.User) bool { return u.GoogleID == googleID })
}

func (r *fakeUserRepo) mutate(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return models.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) ConfirmEmail(ctx context.Context, id primitive.ObjectID) error {
	return r.mutate(id, func(u *models.User) {
		u.IsConfirmed = true
		u.OTPs.Confirmation = ""
	})
}

func (r *fakeUserRepo) SetPasswordResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string) error {
	return r.mutate(id, func(u *models.User) { u.OTPs.PasswordReset = otpHash })
}

func (r *fakeUserRepo) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.mutate(id, func(u *models.User) {
		u.Password = passwordHash
		u.OTPs.PasswordReset = ""
	})
}

func (r *fakeUserRepo) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	return r.mutate(id, func(u *models.User) { u.Email = email })
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	err := r.mutate(id, func(u *models.User) {
		if v, ok := update["firstName"].(string); ok {
			u.FirstName = v
		}
		if v, ok := update["lastName"].(string); ok {
			u.LastName = v
		}
		if v, ok := update["age"].(int); ok {
			u.Age = v
		}
		if v, ok := update["gender"].(string); ok {
			u.Gender = v
		}
		if v, ok := update["phoneNumber"].(string); ok {
			u.PhoneNumber = v
		}
		if v, ok := update["bio"].(string); ok {
			u.Bio = v
		}
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) SetHiddenFields(ctx context.Context, id primitive.ObjectID, fields []string) error {
	return r.mutate(id, func(u *models.User) { u.HiddenFields = fields })
}

func (r *fakeUserRepo) SetProfileImage(ctx context.Context, id primitive.ObjectID, image *models.ProfileImage) error {
	return r.mutate(id, func(u *models.User) { u.ProfileImage = image })
}

func (r *fakeUserRepo) RemoveProfileImage(ctx context.Context, id primitive.ObjectID) error {
	return r.mutate(id, func(u *models.User) { u.ProfileImage = nil })
}

func (r *fakeUserRepo) SearchByEmail(ctx context.Context, email string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := []*models.User{}
	for _, u := range r.users {
		if !u.IsDeleted && u.Email == email {
			copied := *u
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (r *fakeUserRepo) SearchByName(ctx context.Context, terms []string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := []*models.User{}
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		for _, term := range terms {
			if u.FirstName == term || u.LastName == term {
				copied := *u
				results = append(results, &copied)
				break
			}
		}
	}
	return results, nil
}

// fakeMessageRepo is an in-memory models.MessageRepo.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[primitive.ObjectID]*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[primitive.ObjectID]*models.Message{}}
}

// add stores a message as-is, keeping whatever timestamps the caller
// set.
func (r *fakeMessageRepo) add(msg *models.Message) *models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	copied := *msg
	r.messages[msg.ID] = &copied
	return msg
}

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	copied := *msg
	r.messages[msg.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) FindMessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.IsDeleted {
		return nil, models.ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

// list mirrors the Mongo repo's contract: matches come back newest
// first.
func (r *fakeMessageRepo) list(match func(*models.Message) bool) []*models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := []*models.Message{}
	for _, msg := range r.messages {
		if !msg.IsDeleted && match(msg) {
			copied := *msg
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results
}

func (r *fakeMessageRepo) ListByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*models.Message, error) {
	return r.list(func(m *models.Message) bool { return m.ReceiverID == receiverID }), nil
}

func (r *fakeMessageRepo) ListPublicByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*models.Message, error) {
	return r.list(func(m *models.Message) bool { return m.ReceiverID == receiverID && !m.Hidden }), nil
}

func (r *fakeMessageRepo) SetMessageHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.IsDeleted {
		return models.ErrNotFound
	}
	msg.Hidden = hidden
	return nil
}

func (r *fakeMessageRepo) SoftDeleteMessage(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.IsDeleted {
		return models.ErrNotFound
	}
	msg.IsDeleted = true
	return nil
}

// fakeTokenRepo is an in-memory models.TokenRepo.
type fakeTokenRepo struct {
	mu          sync.Mutex
	blacklisted map[string]time.Time
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{blacklisted: map[string]time.Time{}}
}

func (r *fakeTokenRepo) BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blacklisted[jti] = expiresAt
	return nil
}

func (r *fakeTokenRepo) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blacklisted[jti]
	return ok, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer records sent mail; Sent blocks until one arrives because
// the auth service delivers mail from a goroutine.
type fakeMailer struct {
	mail chan sentMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{mail: make(chan sentMail, 8)}
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mail <- sentMail{To: to, Subject: subject, Body: htmlBody}
	return nil
}

func (m *fakeMailer) Sent(t *testing.T) sentMail {
	t.Helper()
	select {
	case msg := <-m.mail:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email to be sent")
		return sentMail{}
	}
}

func (m *fakeMailer) AssertNothingSent(t *testing.T) {
	t.Helper()
	select {
	case msg := <-m.mail:
		t.Fatalf("unexpected email to %s: %s", msg.To, msg.Subject)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeGoogle struct {
	claims *helpers.GoogleClaims
	err    error
}

func (g *fakeGoogle) Verify(ctx context.Context, credential string) (*helpers.GoogleClaims, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.claims, nil
}

type fakeImages struct {
	uploaded  []string
	destroyed []string
	uploadErr error
}

func (s *fakeImages) Upload(ctx context.Context, filePath, folder string) (*helpers.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploaded = append(s.uploaded, filePath)
	return &helpers.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/" + filePath,
		PublicID:  folder + "/" + filePath,
	}, nil
}

func (s *fakeImages) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
