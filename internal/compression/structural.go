package compression

// structuralOutcome carries the repacked bytes plus what the codec learned
// about the source on the way.
type structuralOutcome struct {
	data  []byte
	pages int
	meta  Metadata
}

// repackStructural re-serializes the document through the codec: unreferenced
// objects are dropped, duplicate streams merged, page content left untouched.
// Geometry and page count are preserved by construction.
func (e *Engine) repackStructural(data []byte, strip bool) (*structuralOutcome, error) {
	doc, err := e.codec.Decode(data)
	if err != nil {
		return nil, NewDecodeError("structural repack", err)
	}

	meta := doc.Metadata()
	if strip {
		doc.StripMetadata()
	}

	out, err := doc.Encode()
	if err != nil {
		return nil, NewEncodeError("structural repack", err)
	}

	return &structuralOutcome{
		data:  out,
		pages: doc.PageCount(),
		meta:  meta,
	}, nil
}
