package world

// Audit ops, one per edit operation.
const (
	OpLoad        = "LOAD"
	OpPlace       = "PLACE"
	OpRemove      = "REMOVE"
	OpSetGround   = "SET_GROUND"
	OpOverride    = "SET_PASSABILITY"
	OpFixRegion   = "FIX_REGION"
	OpGenerate    = "GENERATE"
	OpImportArea  = "IMPORT_AREA"
	OpClipboardCp = "CLIPBOARD_COPY"
)

// AuditEntry records one applied edit. X/Y/W/H describe the affected
// point or rectangle; Changed counts touched tiles.
type AuditEntry struct {
	Seq     uint64 `json:"seq"`
	At      string `json:"at,omitempty"`
	Map     string `json:"map,omitempty"`
	Op      string `json:"op"`
	UID     uint32 `json:"uid,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	W       int    `json:"w,omitempty"`
	H       int    `json:"h,omitempty"`
	Changed int    `json:"changed,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type AuditSink interface {
	WriteAudit(AuditEntry) error
}
