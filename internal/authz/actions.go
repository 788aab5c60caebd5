package authz

// Action names an operation checked against the policy set.
type Action string

const (
	ActionTenderCreate Action = "tender:create"
	ActionTenderUpdate Action = "tender:update"
	ActionTenderDelete Action = "tender:delete"
	ActionTenderNotify Action = "tender:notify"

	ActionProposalCreate Action = "proposal:create"
	ActionProposalUpdate Action = "proposal:update"
	ActionProposalDelete Action = "proposal:delete"
	ActionProposalLike   Action = "proposal:like"
	ActionProposalUnlike Action = "proposal:unlike"

	ActionArtObjectCreate       Action = "artobject:create"
	ActionArtObjectUpdate       Action = "artobject:update"
	ActionArtObjectPatch        Action = "artobject:patch"
	ActionArtObjectDelete       Action = "artobject:delete"
	ActionArtObjectReport       Action = "artobject:report"
	ActionArtObjectReadExpenses Action = "artobject:read-expenses"

	ActionProfileUpdate Action = "profile:update"
	ActionProfileDelete Action = "profile:delete"

	ActionContactCreate Action = "contact:create"
	ActionContactRead   Action = "contact:read"
	ActionContactUpdate Action = "contact:update"
	ActionContactDelete Action = "contact:delete"
	ActionContactList   Action = "contact:list"

	ActionFileUpload      Action = "file:upload"
	ActionCatalogueManage Action = "catalogue:manage"
)
