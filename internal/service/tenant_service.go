package service

import (
	"context"
	"fmt"
	"log/slog"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
)

type TenantService struct {
	Tenants   ports.TenantStore
	Files     FileManager
	Listeners []TenantListener
	Logger    *slog.Logger
}

// TenantFiles are the files that arrive with a tenant form.
type TenantFiles struct {
	Avatar    *domain.Upload
	Documents []domain.Upload
}

// UpdateResult is a committed update plus the follow-up steps that failed.
type UpdateResult struct {
	Tenant   *domain.Tenant `json:"tenant"`
	Warnings []string       `json:"warnings"`
}

func (s TenantService) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.Tenants.List(ctx)
}

func (s TenantService) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return s.Tenants.Get(ctx, id)
}

func (s TenantService) Create(ctx context.Context, t domain.Tenant, files TenantFiles) (*domain.Tenant, error) {
	if t.Status == "" {
		t.Status = domain.TenantActive
	}
	if err := check(t, tenantRules(t)); err != nil {
		return nil, err
	}
	t.ID = uuid.New()

	var uploaded []string
	if files.Avatar != nil {
		url, err := s.Files.UploadAvatar(ctx, t.ID, *files.Avatar)
		if err != nil {
			return nil, err
		}
		t.AvatarURL = url
		uploaded = append(uploaded, url)
	}
	docs := s.Files.UploadAll(ctx, BucketTenantDocuments, t.ID, files.Documents)
	t.Documents = append(t.Documents, docs...)

	created, err := s.Tenants.Create(ctx, t)
	if err != nil {
		s.Files.RemoveAll(ctx, BucketAvatars, uploaded)
		s.Files.RemoveAll(ctx, BucketTenantDocuments, docs)
		return nil, err
	}
	return created, nil
}

// Update writes the full tenant, then notifies listeners. Listener errors
// come back as warnings; the tenant row stays updated.
func (s TenantService) Update(ctx context.Context, t domain.Tenant, files TenantFiles) (*UpdateResult, error) {
	if t.Status == "" {
		t.Status = domain.TenantActive
	}
	if err := check(t, tenantRules(t)); err != nil {
		return nil, err
	}
	old, err := s.Tenants.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if t.AvatarURL == "" {
		t.AvatarURL = old.AvatarURL
	}
	var avatar string
	if files.Avatar != nil {
		avatar, err = s.Files.UploadAvatar(ctx, t.ID, *files.Avatar)
		if err != nil {
			return nil, err
		}
		t.AvatarURL = avatar
	}
	if t.Documents == nil {
		t.Documents = old.Documents
	}
	docs := s.Files.UploadAll(ctx, BucketTenantDocuments, t.ID, files.Documents)
	t.Documents = append(t.Documents, docs...)

	// New objects are dropped when the row write fails; old ones only after it succeeds.
	saved, err := s.Tenants.Update(ctx, t)
	s.Files.Settle(ctx, BucketAvatars, old.AvatarURL, avatar, err)
	if err != nil {
		s.Files.RemoveAll(ctx, BucketTenantDocuments, docs)
		return nil, err
	}
	if dropped := missing(old.Documents, saved.Documents); len(dropped) > 0 {
		s.Files.RemoveAll(ctx, BucketTenantDocuments, dropped)
	}

	res := &UpdateResult{Tenant: saved, Warnings: []string{}}
	changed := changedFields(*old, *saved)
	if len(changed) == 0 {
		return res, nil
	}
	ev := TenantUpdated{TenantID: saved.ID, Changed: changed, Tenant: *saved}
	for _, l := range s.Listeners {
		if err := l.TenantUpdated(ctx, ev); err != nil {
			cascadeFailures.Inc()
			s.logger().Warn("tenant update listener failed", "listener", l.Name(), "tenant", saved.ID, "err", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", l.Name(), err))
		}
	}
	return res, nil
}

// Delete soft-deletes the tenants in one statement. An empty list is a no-op.
func (s TenantService) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.Tenants.SoftDelete(ctx, ids)
}

// Undo reverses Delete.
func (s TenantService) Undo(ctx context.Context, ids []uuid.UUID) error {
	return s.Tenants.Restore(ctx, ids)
}

func tenantRules(t domain.Tenant) map[string]string {
	extra := map[string]string{}
	if t.Rent.IsNegative() {
		extra["rent"] = "must not be negative"
	}
	if t.DepositAmount != nil && t.DepositAmount.IsNegative() {
		extra["depositAmount"] = "must not be negative"
	}
	return extra
}

// missing returns the entries of before that are absent from after.
func missing(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, a := range after {
		keep[a] = true
	}
	var out []string
	for _, b := range before {
		if !keep[b] {
			out = append(out, b)
		}
	}
	return out
}

func (s TenantService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
