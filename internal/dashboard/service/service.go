package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"sarpras/internal/audit"
	"sarpras/internal/availability"
	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/flows"
	"sarpras/internal/dashboard/validator"
	"sarpras/internal/export"
	"sarpras/internal/history"
	"sarpras/internal/session"
	"sarpras/internal/tableview"
	"sarpras/pkg/client"
	"sarpras/pkg/config"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/logger"
	"sarpras/pkg/middleware"
	"sarpras/pkg/model"
	"sarpras/pkg/sealer"
)

// DashboardService is everything the browser can ask of the dashboard. All
// calls after Login run on behalf of a session and reach the backend with
// that session's token.
type DashboardService interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error)
	Logout(ctx context.Context, sess *session.Session)

	Resources() []ResourceInfo
	List(ctx context.Context, sess *session.Session, resource string, page, rows int) (*ListResult, error)
	Get(ctx context.Context, sess *session.Session, resource, id string) (any, error)
	Create(ctx context.Context, sess *session.Session, resource string, body []byte) (*MutationOutcome, error)
	Update(ctx context.Context, sess *session.Session, resource, id string, body []byte) (*MutationOutcome, error)
	DeleteIntent(ctx context.Context, sess *session.Session, resource string, ids []string) (*DeleteIntent, error)
	Delete(ctx context.Context, sess *session.Session, resource string, ids []string, confirm string) (*MutationOutcome, error)
	ChangeStatus(ctx context.Context, sess *session.Session, resource, id string, body []byte) (*MutationOutcome, error)

	View(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (*ViewResult, error)
	ViewTable(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (export.Table, error)
	Export(ctx context.Context, sess *session.Session, resource, format string) (*client.Blob, error)

	Availability(ctx context.Context, sess *session.Session, kind, id string, date time.Time) (*AvailabilityResult, error)
	Calendar(ctx context.Context, sess *session.Session, kind, id string, from, to time.Time) (*CalendarResult, error)
	History(ctx context.Context, sess *session.Session, q tableview.Query) (*tableview.Page[history.Entry], error)

	Upload(ctx context.Context, sess *session.Session, filename string, file io.Reader) (string, error)

	Flows() []core.FlowInfo
	ExecuteFlow(ctx context.Context, sess *session.Session, flow string, input map[string]any) (map[string]any, error)
}

type Dependencies struct {
	Config    *config.Config
	Client    *client.HttpClient
	Sessions  *session.Manager
	Sealer    *sealer.Sealer
	Checker   *availability.Checker
	Validator *validator.Validator
	Engine    *core.Engine
	Audit     audit.Publisher
	Now       func() time.Time
}

type dashboardService struct {
	cfg        *config.Config
	log        *logger.Logger
	http       *client.HttpClient
	sessions   *session.Manager
	sealer     *sealer.Sealer
	checker    *availability.Checker
	validator  *validator.Validator
	engine     *core.Engine
	audit      audit.Publisher
	aggregator *history.Aggregator
	resources  registry
	now        func() time.Time
}

func NewDashboardService(deps Dependencies) DashboardService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	engine := deps.Engine
	if engine == nil {
		engine = core.NewEngine(flows.All()...)
	}
	pub := deps.Audit
	if pub == nil {
		pub = audit.Noop()
	}
	return &dashboardService{
		cfg:        deps.Config,
		log:        deps.Config.Log,
		http:       deps.Client,
		sessions:   deps.Sessions,
		sealer:     deps.Sealer,
		checker:    deps.Checker,
		validator:  deps.Validator,
		engine:     engine,
		audit:      pub,
		aggregator: history.NewAggregator(now),
		resources:  newRegistry(),
		now:        now,
	}
}

// backend binds the shared client to one session. A 401 from the backend
// revokes that session.
func (s *dashboardService) backend(sess *session.Session) *client.Backend {
	return client.NewBackend(s.http.WithToken(sess.Token, s.sessions.Revoker(sess.ID)))
}

func (s *dashboardService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Login validation failed", verrs.Details())
		}
		return nil, err
	}

	res, err := client.NewBackend(s.http).Login(ctx, req)
	if err != nil {
		// the login route answers 401 for bad credentials, not for an expired session
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, apperrors.Unauthorized("Email atau password salah")
		}
		s.log.Warn("Login failed", "email", req.Email, "error", err)
		return nil, err
	}

	s.publish(ctx, audit.Event{
		Action:    audit.ActionLogin,
		Resource:  "auth",
		ActorID:   res.User.ID,
		ActorRole: string(res.User.Role),
	})
	return res, nil
}

func (s *dashboardService) Logout(ctx context.Context, sess *session.Session) {
	s.publish(ctx, audit.Event{
		Action:    audit.ActionLogout,
		Resource:  "auth",
		ActorID:   sess.User.ID,
		ActorRole: string(sess.User.Role),
	})
}

// publish never fails the caller: the mutation already happened.
func (s *dashboardService) publish(ctx context.Context, e audit.Event) {
	e.RequestID = middleware.RequestIDFromContext(ctx)
	e.At = s.now().UTC()
	if err := s.audit.Publish(ctx, e); err != nil {
		s.log.Error("Failed to publish audit event",
			"action", e.Action,
			"resource", e.Resource,
			"error", err,
		)
	}
}

func (s *dashboardService) publishMutation(ctx context.Context, sess *session.Session, action audit.Action, resource string, ids []string, message string) {
	s.publish(ctx, audit.Event{
		Action:    action,
		Resource:  resource,
		RecordIDs: ids,
		ActorID:   sess.User.ID,
		ActorRole: string(sess.User.Role),
		Message:   message,
	})
}

func (s *dashboardService) Flows() []core.FlowInfo {
	return s.engine.Flows()
}

func (s *dashboardService) ExecuteFlow(ctx context.Context, sess *session.Session, flow string, input map[string]any) (map[string]any, error) {
	if !s.engine.Has(flow) {
		return nil, apperrors.NotFound("flow " + flow)
	}

	fc := core.NewFlowContext(ctx, input, core.Deps{
		Backend:   s.backend(sess),
		Checker:   s.checker,
		Validator: s.validator,
		Log:       s.log.With("flow", flow, "request_id", middleware.RequestIDFromContext(ctx)),
		Actor:     sess.User,
		FetchRows: s.cfg.ViewFetchRows,
		PageRows:  s.cfg.DefaultPageSize,
	})
	if err := s.engine.Run(flow, fc); err != nil {
		s.log.Warn("Flow failed", "flow", flow, "actor", sess.User.ID, "error", err)
		return nil, err
	}

	action := audit.ActionCreate
	if strings.HasPrefix(flow, "update_") {
		action = audit.ActionUpdate
	}
	ids, _ := fc.Output[flows.OutIDs].([]string)
	resource, _ := fc.Output[flows.OutResource].(string)
	message, _ := fc.Output[flows.OutMessage].(string)
	s.publishMutation(ctx, sess, action, strings.TrimPrefix(resource, "/"), ids, message)

	return fc.Output, nil
}

func (s *dashboardService) Upload(ctx context.Context, sess *session.Session, filename string, file io.Reader) (string, error) {
	return s.backend(sess).Upload(ctx, filename, file)
}

// recordID pulls the id out of a mutation's content, if the backend sent one.
func recordID(res *client.MutationResult, fallback string) []string {
	var ref struct {
		ID string `json:"id"`
	}
	if err := res.Decode(&ref); err == nil && ref.ID != "" {
		return []string{ref.ID}
	}
	if fallback != "" {
		return []string{fallback}
	}
	return nil
}

// MutationOutcome is a backend mutation plus the refetched first page.
type MutationOutcome struct {
	Message   string          `json:"message"`
	Record    json.RawMessage `json:"record,omitempty"`
	Refreshed any             `json:"refreshed,omitempty"`
	Total     int             `json:"total"`
}
