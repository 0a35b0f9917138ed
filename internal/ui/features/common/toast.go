package common

import (
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/vconsole/internal/ui/features/common/components"
)

// Notification messages shown by the console.
const (
	MsgSchemaCreated      = "Schema created successfully"
	MsgSchemaInvalidJSON  = "Invalid JSON in the schema"
	MsgSchemaFailed       = "Failed creating schema"
	MsgSelectClass        = "Please select Object class"
	MsgMissingObjectBody  = "Please add Object Definition"
	MsgObjectInvalidJSON  = "Invalid JSON in the Object Definition"
	MsgObjectAdded        = "Object added with UUID %s"
	MsgObjectFailed       = "Failed adding Object"
	MsgObjectsFetchFailed = "Failed loading objects"
)

// SendToast appends a notification to the page's toast area.
func SendToast(sse *datastar.ServerSentEventGenerator, kind components.ToastKind, message string) error {
	return sse.PatchElementTempl(
		components.Toast(kind, message),
		datastar.WithSelectorID(components.ToastsID),
		datastar.WithModeAppend(),
	)
}
