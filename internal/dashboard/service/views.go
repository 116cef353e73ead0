package service

import (
	"context"
	"strings"

	"sarpras/internal/export"
	"sarpras/internal/session"
	"sarpras/internal/tableview"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionStatus Action = "status"
	ActionReturn Action = "return"
	ActionExport Action = "export"
)

// requestable collections are the ones a plain user may submit to.
var requestable = map[string]bool{
	"peminjaman": true,
	"penyewaan":  true,
	"perbaikan":  true,
}

// RowActions lists the buttons role may see on a resource table. The backend
// remains the authority; this only hides what would be refused.
func RowActions(resource string, role model.Role) []Action {
	actions := []Action{ActionView}
	if !role.IsAdmin() {
		if requestable[resource] {
			actions = append(actions, ActionCreate)
		}
		return actions
	}

	actions = append(actions, ActionCreate, ActionEdit, ActionDelete, ActionExport)
	if client.HasStatusRoute("/" + resource) {
		actions = append(actions, ActionStatus)
	}
	if resource == "peminjaman" || resource == "penyewaan" {
		actions = append(actions, ActionReturn)
	}
	return actions
}

type ViewResult struct {
	Resource string   `json:"resource"`
	Page     any      `json:"page"`
	Actions  []Action `json:"actions"`
}

// View fetches the whole collection and filters and pages it locally.
func (s *dashboardService) View(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (*ViewResult, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}
	page, err := res.view(ctx, s.backend(sess), s.cfg.ViewFetchRows, q)
	if err != nil {
		return nil, err
	}
	return &ViewResult{
		Resource: res.Name(),
		Page:     page,
		Actions:  RowActions(res.Name(), sess.User.Role),
	}, nil
}

// ViewTable is the filtered view without paging, for spreadsheet export.
func (s *dashboardService) ViewTable(ctx context.Context, sess *session.Session, resource string, q tableview.Query) (export.Table, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return export.Table{}, err
	}
	return res.table(ctx, s.backend(sess), s.cfg.ViewFetchRows, q)
}

func (s *dashboardService) Export(ctx context.Context, sess *session.Session, resource, format string) (*client.Blob, error) {
	res, err := s.resources.lookup(resource)
	if err != nil {
		return nil, err
	}

	var f client.ExportFormat
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pdf":
		f = client.ExportPDF
	case "excel", "xlsx":
		f = client.ExportExcel
	default:
		return nil, apperrors.InvalidInput("format must be pdf or excel")
	}
	return s.backend(sess).Export(ctx, res.Path(), f)
}
