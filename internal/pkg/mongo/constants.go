package mongo

const (
	defaultStore    = "transcription_db"
	transcriptTable = "transcripts"
	requestTable    = "requests"
	emailTable      = "emailLock"
)

var indexData = []IndexData{
	newIndexData(transcriptTable, "call_id", false),
	newIndexData(requestTable, "ID", true),
	newIndexData(emailTable, "ID", false)}
