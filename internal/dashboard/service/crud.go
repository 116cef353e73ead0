package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"sarpras/internal/audit"
	"sarpras/internal/dashboard/validator"
	"sarpras/internal/session"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
	"sarpras/pkg/sanitizer"
	"sarpras/pkg/sealer"
)

type ResourceInfo struct {
	Name      string   `json:"name"`
	Fields    []string `json:"fields"`
	HasStatus bool     `json:"hasStatus"`
	ViaFlow   bool     `json:"viaFlow"`
}

type ListResult struct {
	Entries any `json:"entries"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	Rows    int `json:"rows"`
}

func (s *dashboardService) Resources() []ResourceInfo {
	var out []ResourceInfo
	for _, name := range s.resources.names() {
		res := s.resources[name]
		info := ResourceInfo{
			Name:      name,
			HasStatus: client.HasStatusRoute(res.Path()),
			ViaFlow:   res.ViaFlow(),
		}
		for _, f := range res.Fields() {
			info.Fields = append(info.Fields, string(f))
		}
		out = append(out, info)
	}
	return out
}

// List is the raw backend page; page counts from 1 like the backend.
func (s *dashboardService) List(ctx context.Context, sess *session.Session, resource string, page, rows int) (*ListResult, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	entries, total, err := res.list(ctx, s.backend(sess), page, rows)
	if err != nil {
		return nil, err
	}
	return &ListResult{Entries: entries, Total: total, Page: page, Rows: rows}, nil
}

func (s *dashboardService) Get(ctx context.Context, sess *session.Session, resource, id string) (any, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	return res.get(ctx, s.backend(sess), id)
}

func (s *dashboardService) Create(ctx context.Context, sess *session.Session, resource string, body []byte) (*MutationOutcome, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	b := s.backend(sess)
	result, err := res.create(ctx, b, s.validator, body)
	if err != nil {
		return nil, err
	}
	s.publishMutation(ctx, sess, audit.ActionCreate, res.Name(), recordID(result, ""), result.Message)
	return s.outcome(ctx, b, res, result), nil
}

func (s *dashboardService) Update(ctx context.Context, sess *session.Session, resource, id string, body []byte) (*MutationOutcome, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("id is required")
	}
	b := s.backend(sess)
	result, err := res.update(ctx, b, s.validator, id, body)
	if err != nil {
		return nil, err
	}
	s.publishMutation(ctx, sess, audit.ActionUpdate, res.Name(), []string{id}, result.Message)
	return s.outcome(ctx, b, res, result), nil
}

// outcome refetches the first page after a successful mutation. A failed
// refetch leaves Refreshed empty; the write itself stands.
func (s *dashboardService) outcome(ctx context.Context, b *client.Backend, res resource, result *client.MutationResult) *MutationOutcome {
	out := &MutationOutcome{Message: result.Message, Record: result.Content}
	entries, total, err := res.list(ctx, b, 1, s.cfg.DefaultPageSize)
	if err != nil {
		s.log.Warn("Read-after-write refetch failed", "resource", res.Name(), "error", err)
		return out
	}
	out.Refreshed = entries
	out.Total = total
	return out
}

// DeleteIntent is the first of the two delete confirmations. Its sealed
// token names exactly what may be deleted, by whom, until when.
type DeleteIntent struct {
	Token     string    `json:"token"`
	Resource  string    `json:"resource"`
	IDs       []string  `json:"ids"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type intentClaims struct {
	Resource  string   `json:"r"`
	IDs       []string `json:"ids"`
	SessionID string   `json:"sid"`
	Expires   int64    `json:"exp"`
}

func normalizeIDs(ids []string) []string {
	ids = sanitizer.NormalizeIDs(ids)
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (s *dashboardService) DeleteIntent(ctx context.Context, sess *session.Session, resource string, ids []string) (*DeleteIntent, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput("at least one id is required")
	}

	expires := s.now().Add(s.cfg.DeleteIntentTTL)
	token, err := s.sealer.Seal(intentClaims{
		Resource:  res.Name(),
		IDs:       ids,
		SessionID: sess.ID,
		Expires:   expires.Unix(),
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to issue delete confirmation", err)
	}
	return &DeleteIntent{Token: token, Resource: res.Name(), IDs: ids, ExpiresAt: expires.UTC()}, nil
}

func (s *dashboardService) Delete(ctx context.Context, sess *session.Session, resource string, ids []string, confirm string) (*MutationOutcome, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput("at least one id is required")
	}
	if err := s.checkIntent(confirm, sess, res.Name(), ids); err != nil {
		return nil, err
	}

	b := s.backend(sess)
	result, err := res.remove(ctx, b, ids)
	if err != nil {
		return nil, err
	}
	s.publishMutation(ctx, sess, audit.ActionDelete, res.Name(), ids, result.Message)
	return s.outcome(ctx, b, res, result), nil
}

func (s *dashboardService) checkIntent(token string, sess *session.Session, resource string, ids []string) error {
	if token == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "Delete must be confirmed first", http.StatusPreconditionRequired)
	}
	var claims intentClaims
	if err := s.sealer.Open(token, &claims); err != nil {
		if errors.Is(err, sealer.ErrInvalidToken) {
			return apperrors.Forbidden("Delete confirmation is invalid")
		}
		return apperrors.Internal("Failed to read delete confirmation", err)
	}
	switch {
	case claims.SessionID != sess.ID:
		return apperrors.Forbidden("Delete confirmation belongs to another session")
	case claims.Resource != resource || !slices.Equal(claims.IDs, ids):
		return apperrors.Forbidden("Delete confirmation does not match the selected records")
	case s.now().Unix() > claims.Expires:
		return apperrors.Forbidden("Delete confirmation expired, confirm again")
	}
	return nil
}

func (s *dashboardService) ChangeStatus(ctx context.Context, sess *session.Session, resource, id string, body []byte) (*MutationOutcome, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	if !client.HasStatusRoute(res.Path()) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s has no approval status", res.Name()))
	}
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("id is required")
	}

	change, err := s.decodeStatus(body)
	if err != nil {
		return nil, err
	}

	b := s.backend(sess)
	result, err := b.ChangeStatus(ctx, res.Path(), id, *change)
	if err != nil {
		return nil, err
	}
	s.publishMutation(ctx, sess, audit.ActionStatus, res.Name(), []string{id},
		fmt.Sprintf("%s: %s", change.StatusPengajuan, result.Message))
	return s.outcome(ctx, b, res, result), nil
}

func (s *dashboardService) decodeStatus(body []byte) (*model.StatusChange, error) {
	var change model.StatusChange
	if err := json.Unmarshal(body, &change); err != nil {
		return nil, apperrors.InvalidInput("Invalid request body")
	}
	change.StatusPengajuan = model.StatusPengajuan(strings.ToUpper(strings.TrimSpace(string(change.StatusPengajuan))))
	change.DeskripsiPenolakan = sanitizer.TrimAndNormalize(change.DeskripsiPenolakan)
	if change.StatusPengajuan != model.PengajuanRejected {
		change.DeskripsiPenolakan = ""
	}

	if err := s.validator.Struct(change); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Status change validation failed", verrs.Details())
		}
		return nil, err
	}
	return &change, nil
}
