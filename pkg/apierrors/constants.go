package apierrors

const (
	MsgFailListTask          = "errorListTask"
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgTaskNotFound          = "taskNotFound"
	MsgFailUpdateTask        = "failUpdateTask"
	MsgVersionConflict       = "versionConflict"
	MsgInvalidUserID         = "invalidUserID"
	MsgInvalidMessagePayload = "invalidMessagePayload"
	MsgFailListHandoffs      = "failListHandoffs"
	MsgInvalidSlackSignature = "invalidSlackSignature"
)
