// internal/domain/client/service_test.go
package client_test

import (
	"testing"

	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

func newClientService(t *testing.T) *client.Service {
	t.Helper()
	return client.NewService(testutil.NewTestDB(t), testutil.NewTestConfig())
}

func TestClientSiteSectionHierarchy(t *testing.T) {
	svc := newClientService(t)

	cl, err := svc.CreateClient(&client.CreateClientRequest{
		Name:  "Green Estates",
		Email: "billing@greenestates.example",
	})
	if err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	if !cl.IsActive {
		t.Error("expected new client to be active")
	}

	site, err := svc.CreateSite(cl.ID, &client.CreateSiteRequest{
		Name:    "North Garden",
		Address: "1 Park Lane",
		AreaSqm: 500,
	})
	if err != nil {
		t.Fatalf("create site failed: %v", err)
	}

	if _, err := svc.CreateSection(site.ID, &client.CreateSectionRequest{
		Name:        "Rose beds",
		Description: "South-facing beds along the wall",
	}); err != nil {
		t.Fatalf("create section failed: %v", err)
	}
	if _, err := svc.CreateSection(site.ID, &client.CreateSectionRequest{Name: "Lawn"}); err != nil {
		t.Fatalf("create section failed: %v", err)
	}

	loaded, err := svc.GetSite(site.ID)
	if err != nil {
		t.Fatalf("get site failed: %v", err)
	}
	if len(loaded.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(loaded.Sections))
	}

	withSites, err := svc.GetClient(cl.ID)
	if err != nil {
		t.Fatalf("get client failed: %v", err)
	}
	if len(withSites.Sites) != 1 {
		t.Errorf("expected 1 site, got %d", len(withSites.Sites))
	}
}

func TestCreateSiteRequiresClient(t *testing.T) {
	svc := newClientService(t)
	if _, err := svc.CreateSite(99, &client.CreateSiteRequest{Name: "Orphan"}); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateSectionRequiresSite(t *testing.T) {
	svc := newClientService(t)
	if _, err := svc.CreateSection(99, &client.CreateSectionRequest{Name: "Orphan"}); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListClientsHidesInactive(t *testing.T) {
	svc := newClientService(t)

	active, _ := svc.CreateClient(&client.CreateClientRequest{Name: "Active Gardens"})
	dormant, _ := svc.CreateClient(&client.CreateClientRequest{Name: "Dormant Gardens"})

	inactive := false
	if _, err := svc.UpdateClient(dormant.ID, &client.UpdateClientRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	clients, err := svc.ListClients()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clients) != 1 || clients[0].ID != active.ID {
		t.Errorf("expected only the active client, got %d", len(clients))
	}
}

func TestBranchNameUnique(t *testing.T) {
	svc := newClientService(t)

	if _, err := svc.CreateBranch(&client.CreateBranchRequest{Name: "Amsterdam"}); err != nil {
		t.Fatalf("create branch failed: %v", err)
	}
	if _, err := svc.CreateBranch(&client.CreateBranchRequest{Name: "Amsterdam"}); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	branches, err := svc.ListBranches()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(branches) != 1 {
		t.Errorf("expected 1 branch, got %d", len(branches))
	}
}
