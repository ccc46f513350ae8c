package ingest

// FilesRow records the metadata for one uploaded file. Unlike the other
// three row types it is not produced from an NDJSON stream: the presign
// handler builds one FilesRow per entry in a file upload request body
// before generating that file's presigned URL.
type FilesRow struct {
	Time        uint64 `json:"time" ch:"time"`
	Step        uint64 `json:"step" ch:"step"`
	LogGroup    string `json:"logGroup" ch:"logGroup"`
	LogName     string `json:"logName" ch:"logName"`
	FileName    string `json:"fileName" ch:"fileName"`
	FileSize    uint64 `json:"fileSize" ch:"fileSize"`
	FileType    string `json:"fileType" ch:"fileType"`
	TenantID    string `json:"tenantId" ch:"tenantId"`
	RunID       uint64 `json:"runId" ch:"runId"`
	ProjectName string `json:"projectName" ch:"projectName"`
}

func (FilesRow) TableName() string { return "mlop_files" }

// BuildFilesRow assembles a FilesRow from one entry of a file upload
// request. fileTypeExtension is the resolved catalog extension (or "" for a
// custom MIME type) — the gateway stores the extension, not the MIME
// string, matching the original service's persisted shape.
func BuildFilesRow(logName, fileName, fileTypeExtension string, fileSize, step, time uint64, enrichment Enrichment) FilesRow {
	return FilesRow{
		Time:        time,
		Step:        step,
		LogGroup:    LogGroup(logName),
		LogName:     logName,
		FileName:    fileName,
		FileSize:    fileSize,
		FileType:    fileTypeExtension,
		TenantID:    enrichment.TenantID,
		RunID:       enrichment.RunID,
		ProjectName: enrichment.ProjectName,
	}
}
