package beacon

type ScoreUpsertedEvent struct {
	UserID     string  `json:"user_id"`
	WeekID     string  `json:"week_id"`
	FinalScore float64 `json:"final_score"`
	CheckMark  bool    `json:"check_mark"`
	EnteredBy  string  `json:"entered_by"`
}

type ScoreDeletedEvent struct {
	UserID    string `json:"user_id"`
	WeekID    string `json:"week_id"`
	DeletedBy string `json:"deleted_by"`
}

type WeightsUpdatedEvent struct {
	TeamID        string `json:"team_id"`
	Execution     int    `json:"execution"`
	Objective     int    `json:"objective"`
	Collaboration int    `json:"collaboration"`
	UpdatedBy     string `json:"updated_by"`
}

type RatingUpdatedEvent struct {
	UserID     string  `json:"user_id"`
	Multiplier float64 `json:"multiplier"`
	UpdatedBy  string  `json:"updated_by"`
}
