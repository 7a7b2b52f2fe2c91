package index

// Record holds the location and naming fields resolved from the metadata
// index for a single artifact. It is a transient, request-scoped copy; the
// index owns the data and this service never writes it back.
type Record struct {
	ID           string
	FileLocation string // storage root; "s3" prefix means object storage
	FileName     string // name under which the bytes are physically stored
	DisplayName  string // optional override presented to the client
}

// EffectiveName returns the name the client should save the artifact under:
// the display name when present, otherwise the stored file name.
func (r *Record) EffectiveName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.FileName
}

// FilePath returns the full path of the artifact within its storage root.
func (r *Record) FilePath() string {
	return r.FileLocation + "/" + r.EffectiveName()
}
