package settings

// Options carries the optional attributes of a Set call. Zero fields
// leave the corresponding attribute of an existing setting untouched;
// pointer fields distinguish "unset" from an explicit false.
type Options struct {
	Type            string   // type tag; empty keeps the existing type (string for new settings)
	GroupKey        string   // group to attach, created on demand when missing
	Description     string   // applied when non-empty
	IsPublic        *bool    // new settings default to public
	IsEncrypted     *bool    // new settings default to the type tag (encrypted => true)
	ValidationRules []string // replaces the declared rules when non-nil
	DefaultValue    string   // applied when non-empty
	Order           *int     // display rank

	// Actor metadata for the audit trail.
	ChangedBy    OwnerRef
	IPAddress    string
	UserAgent    string
	ChangeReason string
}

// ExportedSetting is one element of the export/import file format: a
// JSON array of these objects, value in its typed (cast) form. Import is
// tolerant of missing optional fields.
type ExportedSetting struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Type        string `json:"type,omitempty"`
	Group       string `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
}
