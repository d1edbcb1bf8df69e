package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scangate/internal/commands"
	"scangate/internal/models"
	"scangate/internal/observable"
	"scangate/internal/repositories"
)

//go:generate mockgen -source=login.go -destination=mock.go -package=services

// Property names published by the login workflow's observable state.
const (
	PropUsername      = "Username"
	PropPassword      = "Password"
	PropStatusMessage = "StatusMessage"
)

// Outcome classifies how a login attempt ended.
type Outcome int

const (
	// OutcomeAuthenticated means a credential record matched.
	OutcomeAuthenticated Outcome = iota
	// OutcomeRejected is a normal negative outcome: empty input or no
	// matching record.
	OutcomeRejected
	// OutcomeFaulted means the credential store was missing or could
	// not be read; an administrative or internal condition.
	OutcomeFaulted
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Result is the terminal state of one login attempt.
type Result struct {
	Outcome Outcome
	// Message is the user-facing summary line. Fault detail is logged,
	// never shown verbatim.
	Message string
	// Token is the operator session token; set only when authenticated
	// and issuance succeeded.
	Token string
}

// CredentialLister defines read access to the credential store.
type CredentialLister interface {
	List(ctx context.Context) ([]models.Credential, error)
}

// TokenIssuer mints a session token for an authenticated operator.
type TokenIssuer interface {
	Issue(ctx context.Context, username string) (string, error)
}

// LoginService orchestrates one login attempt: read input state →
// validate non-empty → load credential store → match → signal
// success or failure. It is the fault boundary for the whole login
// path; nothing propagates past Attempt.
type LoginService struct {
	observable.Host

	reader CredentialLister
	issuer TokenIssuer
	log    *zap.SugaredLogger

	loginCmd *commands.Relay

	// Login attempt state, owned exclusively by this instance and
	// discarded with it.
	username string
	password string
	status   string

	mu              sync.Mutex
	onAuthenticated []func(username, token string)
}

// NewLoginService wires the workflow. The reader is required; issuer
// may be nil (no session token is minted then). The registry scopes
// enablement signals and the dispatcher owns notification delivery.
func NewLoginService(
	reader CredentialLister,
	issuer TokenIssuer,
	registry *commands.Requery,
	dispatcher observable.Dispatcher,
	log *zap.SugaredLogger,
) *LoginService {
	if reader == nil {
		panic("services: NewLoginService requires a credential reader")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	svc := &LoginService{
		reader: reader,
		issuer: issuer,
		log:    log,
	}
	svc.SetDispatcher(dispatcher)

	// Always enabled: emptiness is validated inside the attempt so the
	// operator sees a warning instead of a silently disabled control.
	svc.loginCmd = commands.NewRelay(registry, func() {
		svc.Attempt(context.Background())
	})

	log.Debugw("login service constructed", "token_issuer", issuer != nil)
	return svc
}

// LoginCommand is the command bound to the screen's login trigger.
func (s *LoginService) LoginCommand() *commands.Relay {
	return s.loginCmd
}

// SetUsername writes the username property; reports whether it changed.
func (s *LoginService) SetUsername(v string) bool {
	return observable.Set(&s.Host, &s.username, v, PropUsername)
}

// SetPassword writes the password property; reports whether it changed.
func (s *LoginService) SetPassword(v string) bool {
	return observable.Set(&s.Host, &s.password, v, PropPassword)
}

// Username returns the current username property.
func (s *LoginService) Username() string {
	return observable.Get(&s.Host, &s.username)
}

// Password returns the current password property.
func (s *LoginService) Password() string {
	return observable.Get(&s.Host, &s.password)
}

// StatusMessage returns the user-facing status line.
func (s *LoginService) StatusMessage() string {
	return observable.Get(&s.Host, &s.status)
}

func (s *LoginService) setStatus(msg string) {
	observable.Set(&s.Host, &s.status, msg, PropStatusMessage)
}

// Reset clears the attempt state, notifying once per property. Call
// from the context that owns the screen; it is not safe against
// concurrent mutation.
func (s *LoginService) Reset() {
	s.username = ""
	s.password = ""
	s.status = ""
	s.NotifyChanged(PropUsername, PropPassword, PropStatusMessage)
}

// OnAuthenticated registers the success hand-off hook. The navigation
// collaborator replaces the screen from here; this service does not
// own window lifecycle.
func (s *LoginService) OnAuthenticated(fn func(username, token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAuthenticated = append(s.onAuthenticated, fn)
}

// Attempt runs one synchronous login attempt end-to-end and returns
// its terminal state. Every failure below this boundary is converted
// to a Result; panics included.
func (s *LoginService) Attempt(ctx context.Context) (result Result) {
	attemptID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("login attempt panicked",
				"attempt_id", attemptID, "panic", r)
			result = Result{Outcome: OutcomeFaulted, Message: "login failed: internal error"}
			s.setStatus(result.Message)
		}
	}()

	username := s.Username()
	password := s.Password()
	s.log.Infow("login attempt started", "attempt_id", attemptID, "username", username)

	if username == "" || password == "" {
		s.log.Warnw("login attempt rejected: empty input", "attempt_id", attemptID)
		result = Result{Outcome: OutcomeRejected, Message: "username and password are required"}
		s.setStatus(result.Message)
		return result
	}

	records, err := s.reader.List(ctx)
	if err != nil {
		msg := "credential store unavailable"
		if errors.Is(err, repositories.ErrNoCredentialData) {
			msg = "no credential data"
		}
		s.log.Errorw("login attempt faulted",
			"attempt_id", attemptID, "error", err)
		result = Result{Outcome: OutcomeFaulted, Message: msg}
		s.setStatus(msg)
		return result
	}

	match, found := firstByUsername(records, username)
	if !found || match.Password != password {
		s.log.Warnw("login attempt rejected: no matching credentials",
			"attempt_id", attemptID, "username", username)
		result = Result{Outcome: OutcomeRejected, Message: "invalid username or password"}
		s.setStatus(result.Message)
		return result
	}

	var token string
	if s.issuer != nil {
		token, err = s.issuer.Issue(ctx, match.Username)
		if err != nil {
			// The token is advisory for downstream screens; issuance
			// failure does not reject an authenticated operator.
			s.log.Errorw("session token issuance failed",
				"attempt_id", attemptID, "error", err)
			token = ""
		}
	}

	s.log.Infow("login attempt succeeded",
		"attempt_id", attemptID, "username", match.Username)
	result = Result{Outcome: OutcomeAuthenticated, Message: "authenticated", Token: token}
	s.setStatus(result.Message)

	s.mu.Lock()
	hooks := make([]func(string, string), len(s.onAuthenticated))
	copy(hooks, s.onAuthenticated)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(match.Username, token)
	}

	return result
}

// firstByUsername returns the first record whose username equals name
// case-insensitively. Only that record's password counts; duplicates
// later in the sequence never win.
func firstByUsername(records []models.Credential, name string) (models.Credential, bool) {
	for _, rec := range records {
		if strings.EqualFold(rec.Username, name) {
			return rec, true
		}
	}
	return models.Credential{}, false
}
