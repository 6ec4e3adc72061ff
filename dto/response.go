package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PipelineStats aggregates what the run did and did not resolve, so an
// operator can spot exhibits that parsed to nothing.
type PipelineStats struct {
	InputFiles       int      `json:"input_files"`
	AttachmentsFound int      `json:"attachments_found"`
	RowsProduced     int      `json:"rows_produced"`
	UniquePEs        int      `json:"unique_pes"`
	PEsResolved      int      `json:"pes_resolved"`
	PEsUnresolved    []string `json:"pes_unresolved"`
	FilesWithoutRows []string `json:"files_without_rows"`
}

// PipelineResponse is the final response structure
type PipelineResponse struct {
	SourceFile  string           `json:"source_file"`
	Records     []EnrichedRecord `json:"records"`
	Stats       PipelineStats    `json:"stats"`
	ProcessedAt string           `json:"processed_at"`
}

// AttachmentListResponse lists the files embedded in a container PDF.
type AttachmentListResponse struct {
	Filename    string           `json:"filename"`
	Attachments []AttachmentInfo `json:"attachments"`
}

// TaggedRecord pairs an enriched record with its relevance tag.
type TaggedRecord struct {
	EnrichedRecord
	Relevance string `json:"relevance"`
	Rationale string `json:"rationale"`
}

// TaggingResponse is the tagging endpoint's result set, in input order.
type TaggingResponse struct {
	Records     []TaggedRecord `json:"records"`
	ProcessedAt string         `json:"processed_at"`
}
