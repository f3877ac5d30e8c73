package audit

// Closed set of loggable actions. Every mutating call maps to exactly one.
const (
	ActionCreateEntries        = "CREATE_ENTRIES"
	ActionEditEntry            = "EDIT_ENTRY"
	ActionDeleteEntries        = "DELETE_ENTRIES"
	ActionUpsertAuditStatus    = "UPSERT_AUDIT_STATUS"
	ActionSubmitSheet          = "SUBMIT_SHEET"
	ActionReturnSheet          = "RETURN_SHEET"
	ActionFinalizeSheet        = "FINALIZE_SHEET"
	ActionSaveNotice           = "SAVE_NOTICE"
	ActionAddWorksite          = "ADD_WORKSITE"
	ActionDeactivateWorksite   = "DEACTIVATE_WORKSITE"
	ActionChangeAccessCode     = "CHANGE_ACCESS_CODE"
	ActionAddRole              = "ADD_ROLE"
	ActionEditRole             = "EDIT_ROLE"
	ActionDeactivateRole       = "DEACTIVATE_ROLE"
	ActionAddEmployee          = "ADD_EMPLOYEE"
	ActionEditEmployee         = "EDIT_EMPLOYEE"
	ActionDeactivateEmployee   = "DEACTIVATE_EMPLOYEE"
	ActionAddDiscipline        = "ADD_DISCIPLINE"
	ActionEditDiscipline       = "EDIT_DISCIPLINE"
	ActionDeactivateDiscipline = "DEACTIVATE_DISCIPLINE"
	ActionReactivateDiscipline = "REACTIVATE_DISCIPLINE"
	ActionAddService           = "ADD_SERVICE"
	ActionEditService          = "EDIT_SERVICE"
	ActionDeactivateService    = "DEACTIVATE_SERVICE"
	ActionReactivateService    = "REACTIVATE_SERVICE"
	ActionResetCompletion      = "RESET_COMPLETION"
)
