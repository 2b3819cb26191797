package beacon

const (
	StreamName   = "TALLY_EVENTS"
	StreamMaxAge = "2160h" // 90 days, one quarter
)

func SubjectScoreUpserted(userID string) string  { return "wfm.score." + userID + ".upserted" }
func SubjectScoreDeleted(userID string) string   { return "wfm.score." + userID + ".deleted" }
func SubjectWeightsUpdated(teamID string) string { return "wfm.weights." + teamID + ".updated" }
func SubjectRatingUpdated(userID string) string  { return "wfm.rating." + userID + ".updated" }
