package workflow

import (
	"time"

	"github.com/kzhou/taskflow/internal/domain/entity"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

// NewActivityCatalog builds the transition catalog for Activity work items:
//
//	CREATED → REQUESTED → ASSIGNED → IN_PROGRESS → COMPLETED → {APPROVED | REJECTED}
//
// with CANCELLED reachable from REQUESTED, ASSIGNED and IN_PROGRESS only.
func NewActivityCatalog() *domainwf.Catalog {
	builder := domainwf.NewCatalogBuilder(
		entity.KindActivity,
		domainwf.StateCreated,
		[]domainwf.State{
			domainwf.StateCreated,
			domainwf.StateRequested,
			domainwf.StateAssigned,
			domainwf.StateInProgress,
			domainwf.StateCompleted,
			domainwf.StateApproved,
			domainwf.StateRejected,
			domainwf.StateCancelled,
		},
		[]domainwf.State{
			domainwf.StateApproved,
			domainwf.StateRejected,
			domainwf.StateCancelled,
		},
	)

	builder.Configure(domainwf.StateCreated).
		Permit(domainwf.ActionRequest, domainwf.StateRequested).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldRequesterID, domainwf.FieldNotes).
		Mutate(applyRequest)

	builder.Configure(domainwf.StateRequested).
		Permit(domainwf.ActionAssign, domainwf.StateAssigned).
		By(domainwf.RoleAssigner).
		Require(domainwf.FieldAssignerID, domainwf.FieldExecutorID, domainwf.FieldNotes).
		Mutate(applyAssign).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	builder.Configure(domainwf.StateAssigned).
		Permit(domainwf.ActionStart, domainwf.StateInProgress).
		By(domainwf.RoleExecutor).
		Require(domainwf.FieldNotes).
		Mutate(applyStart).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	builder.Configure(domainwf.StateInProgress).
		Permit(domainwf.ActionComplete, domainwf.StateCompleted).
		By(domainwf.RoleExecutor).
		Require(domainwf.FieldNotes, domainwf.FieldActualHours).
		Mutate(applyComplete).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	builder.Configure(domainwf.StateCompleted).
		Permit(domainwf.ActionApprove, domainwf.StateApproved).
		By(domainwf.RoleAssigner).
		Require(domainwf.FieldNotes).
		Mutate(applyApproval).
		Permit(domainwf.ActionReject, domainwf.StateRejected).
		By(domainwf.RoleAssigner).
		Require(domainwf.FieldNotes).
		Mutate(applyApproval)

	// APPROVED, REJECTED and CANCELLED are terminal, nothing configured

	return builder.Build()
}

func applyRequest(item *entity.WorkItem, p domainwf.Payload, now time.Time) {
	item.RequesterID = p.RequesterID
	item.RequestDate = &now
	item.RequestNotes = p.Notes
}

func applyAssign(item *entity.WorkItem, p domainwf.Payload, now time.Time) {
	item.AssignerID = p.AssignerID
	item.ExecutorID = p.ExecutorID
	item.AssignmentDate = &now
	item.AssignmentNotes = p.Notes
}

func applyStart(item *entity.WorkItem, p domainwf.Payload, now time.Time) {
	item.StartDate = &now
	item.ExecutionNotes = p.Notes
}

func applyComplete(item *entity.WorkItem, p domainwf.Payload, now time.Time) {
	hours := *p.ActualHours
	item.CompletionDate = &now
	item.CompletionNotes = p.Notes
	item.ActualHours = &hours
}

func applyApproval(item *entity.WorkItem, p domainwf.Payload, now time.Time) {
	item.ApprovalDate = &now
	item.ApprovalNotes = p.Notes
}

// applyCancel records nothing on the entity beyond the status change; the
// cancellation notes live in the history record.
func applyCancel(item *entity.WorkItem, p domainwf.Payload, now time.Time) {}
