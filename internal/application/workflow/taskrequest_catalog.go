package workflow

import (
	"github.com/kzhou/taskflow/internal/domain/entity"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

// NewTaskRequestCatalog builds the transition catalog for TaskRequest work
// items:
//
//	DRAFT → SUBMITTED → ASSIGNED → COMPLETED
//
// with CANCELLED reachable from every non-terminal state. The cancel rule
// deliberately differs from the Activity catalog; the two variants are
// configured separately rather than reconciled.
func NewTaskRequestCatalog() *domainwf.Catalog {
	builder := domainwf.NewCatalogBuilder(
		entity.KindTaskRequest,
		domainwf.StateDraft,
		[]domainwf.State{
			domainwf.StateDraft,
			domainwf.StateSubmitted,
			domainwf.StateAssigned,
			domainwf.StateCompleted,
			domainwf.StateCancelled,
		},
		[]domainwf.State{
			domainwf.StateCompleted,
			domainwf.StateCancelled,
		},
	)

	builder.Configure(domainwf.StateDraft).
		Permit(domainwf.ActionSubmit, domainwf.StateSubmitted).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldRequesterID, domainwf.FieldNotes).
		Mutate(applyRequest).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	builder.Configure(domainwf.StateSubmitted).
		Permit(domainwf.ActionAssign, domainwf.StateAssigned).
		By(domainwf.RoleAssigner).
		Require(domainwf.FieldAssignerID, domainwf.FieldExecutorID, domainwf.FieldNotes).
		Mutate(applyAssign).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	builder.Configure(domainwf.StateAssigned).
		Permit(domainwf.ActionComplete, domainwf.StateCompleted).
		By(domainwf.RoleExecutor).
		Require(domainwf.FieldNotes, domainwf.FieldActualHours).
		Mutate(applyComplete).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled).
		By(domainwf.RoleRequester).
		Require(domainwf.FieldNotes).
		Mutate(applyCancel)

	// COMPLETED and CANCELLED are terminal, nothing configured

	return builder.Build()
}
