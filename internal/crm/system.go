// ABOUTME: System wires the four stores together over one sink and clock
// ABOUTME: Provides the cross-store joins the entity forms rely on

package crm

import (
	"context"
	"log/slog"
	"time"

	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// System bundles the four stores. The stores are independent; System only
// adds the cross-store lookups that build denormalized fields at save time.
type System struct {
	Clients *ClientStore
	Leads   *LeadStore
	Tasks   *TaskStore
	UI      *UIStore
}

// New constructs the stores over a shared sink, id/clock service, and logger,
// loading any persisted snapshots.
func New(ctx context.Context, sink persist.Sink, id ident.Service, logger *slog.Logger) (*System, error) {
	clients, err := NewClientStore(ctx, sink, id, logger)
	if err != nil {
		return nil, err
	}
	leads, err := NewLeadStore(ctx, sink, id, logger)
	if err != nil {
		return nil, err
	}
	tasks, err := NewTaskStore(ctx, sink, id, logger)
	if err != nil {
		return nil, err
	}
	ui, err := NewUIStore(ctx, sink, logger)
	if err != nil {
		return nil, err
	}

	return &System{
		Clients: clients,
		Leads:   leads,
		Tasks:   tasks,
		UI:      ui,
	}, nil
}

// ResolveClientName returns the current name of the client, or "" when the
// id does not resolve. A dangling reference is "unknown client", never an
// error.
func (s *System) ResolveClientName(clientID string) string {
	c, err := s.Clients.Get(clientID)
	if err != nil {
		return ""
	}
	return c.Name
}

// ResolveLeadTitle returns the current title of the lead, or "" when the id
// does not resolve.
func (s *System) ResolveLeadTitle(leadID string) string {
	l, err := s.Leads.Get(leadID)
	if err != nil {
		return ""
	}
	return l.Title
}

// CreateLead resolves the client name and stores the lead. The resolved name
// is a snapshot; later client renames do not touch it.
func (s *System) CreateLead(ctx context.Context, l Lead) Lead {
	l.ClientName = s.ResolveClientName(l.ClientID)
	return s.Leads.Add(ctx, l)
}

// EditLead applies the patch, re-resolving the client name snapshot when the
// patch moves the lead to another client.
func (s *System) EditLead(ctx context.Context, id string, patch LeadPatch) {
	if patch.ClientID != nil {
		name := s.ResolveClientName(*patch.ClientID)
		patch.ClientName = &name
	}
	s.Leads.Update(ctx, id, patch)
}

// CreateTask resolves the client and lead name snapshots and stores the task.
func (s *System) CreateTask(ctx context.Context, t Task) Task {
	if t.ClientID != "" {
		t.ClientName = s.ResolveClientName(t.ClientID)
	}
	if t.LeadID != "" {
		t.LeadTitle = s.ResolveLeadTitle(t.LeadID)
	}
	return s.Tasks.Add(ctx, t)
}

// EditTask applies the patch, re-resolving the name snapshots for any
// reference the patch changes.
func (s *System) EditTask(ctx context.Context, id string, patch TaskPatch) {
	if patch.ClientID != nil {
		name := s.ResolveClientName(*patch.ClientID)
		patch.ClientName = &name
	}
	if patch.LeadID != nil {
		title := s.ResolveLeadTitle(*patch.LeadID)
		patch.LeadTitle = &title
	}
	s.Tasks.Update(ctx, id, patch)
}

// LeadChoicesForClient returns the leads the task form should offer: the
// selected client's leads, or every lead when no client is selected.
func (s *System) LeadChoicesForClient(clientID string) []Lead {
	if clientID == "" {
		return s.Leads.All()
	}
	return s.Leads.ByClient(clientID)
}

// SeedDemo populates an empty system with a small sample data set. Stores
// that already hold data are left alone.
func (s *System) SeedDemo(ctx context.Context) {
	now := s.Tasks.ident.Now()

	if len(s.Clients.All()) == 0 {
		s.Clients.Add(ctx, Client{
			Name: "John Smith", Email: "john.smith@company.com",
			Phone: "+1 (555) 123-4567", Company: "Tech Solutions Inc.",
			Status: ClientActive, Tags: []string{"tech", "enterprise"},
			Notes: "Key decision maker for enterprise solutions.",
		})
		s.Clients.Add(ctx, Client{
			Name: "Sarah Johnson", Email: "sarah.j@startup.co",
			Phone: "+1 (555) 987-6543", Company: "StartupXYZ",
			Status: ClientActive, Tags: []string{"startup", "saas"},
			Notes: "Interested in our SaaS platform.",
		})
		s.Clients.Add(ctx, Client{
			Name: "Mike Wilson", Email: "mike.wilson@corp.com",
			Phone: "+1 (555) 456-7890", Company: "Corporate Ltd.",
			Status: ClientInactive, Tags: []string{"corporate", "legacy"},
			Notes: "Previous customer, may re-engage.",
		})
	}

	clients := s.Clients.All()
	if len(s.Leads.All()) == 0 && len(clients) >= 3 {
		close1 := now.Add(30 * 24 * time.Hour)
		close2 := now.Add(14 * 24 * time.Hour)
		s.CreateLead(ctx, Lead{
			Title: "Enterprise Software License", ClientID: clients[0].ID,
			Stage: StageProposal, Value: 50000, Priority: PriorityHigh,
			Description:   "Large enterprise software license.",
			ContactPerson: clients[0].Name, Email: clients[0].Email, Phone: clients[0].Phone,
			Notes: "Follow up on proposal next week.", ExpectedCloseDate: &close1,
		})
		s.CreateLead(ctx, Lead{
			Title: "SaaS Platform Subscription", ClientID: clients[1].ID,
			Stage: StageContacted, Value: 12000, Priority: PriorityMedium,
			Description:   "Annual SaaS platform subscription.",
			ContactPerson: clients[1].Name, Email: clients[1].Email, Phone: clients[1].Phone,
			Notes: "Demo scheduled for next week.", ExpectedCloseDate: &close2,
		})
		s.CreateLead(ctx, Lead{
			Title: "Legacy System Upgrade", ClientID: clients[2].ID,
			Stage: StageNew, Value: 25000, Priority: PriorityLow,
			Description:   "Upgrade existing legacy system.",
			ContactPerson: clients[2].Name, Email: clients[2].Email, Phone: clients[2].Phone,
			Notes: "Initial contact made, waiting for response.",
		})
	}

	leads := s.Leads.All()
	if len(s.Tasks.All()) == 0 && len(leads) >= 3 {
		s.CreateTask(ctx, Task{
			Title:       "Follow up on proposal",
			Description: "Call to discuss the enterprise software proposal.",
			Priority:    PriorityHigh, Status: TaskTodo,
			DueDate:  now.Add(2 * 24 * time.Hour),
			ClientID: leads[0].ClientID, LeadID: leads[0].ID,
			AssignedTo: "Sales Team",
		})
		s.CreateTask(ctx, Task{
			Title:       "Prepare platform demo",
			Description: "Create demo presentation for the SaaS platform.",
			Priority:    PriorityMedium, Status: TaskInProgress,
			DueDate:  now.Add(24 * time.Hour),
			ClientID: leads[1].ClientID, LeadID: leads[1].ID,
			AssignedTo: "Product Team",
		})
		s.CreateTask(ctx, Task{
			Title:       "Send follow-up email",
			Description: "Send follow-up email about the legacy system upgrade.",
			Priority:    PriorityLow, Status: TaskCompleted,
			DueDate:  now.Add(-24 * time.Hour),
			ClientID: leads[2].ClientID, LeadID: leads[2].ID,
			AssignedTo: "Sales Team",
		})
	}
}
