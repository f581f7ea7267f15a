package constants

// StageLabels maps the route slug of every class to its Arabic display name.
var StageLabels = map[string]string{
	"angels": "ملايكة",
	"grade1": "سنة أولى",
	"grade2": "سنة تانية",
	"grade3": "سنة تالتة",
	"grade4": "سنة رابعة",
	"grade5": "سنة خامسة",
	"grade6": "سنة سادسة",
}

// TusbhaStages — the tusbha activity only runs for the older classes.
var TusbhaStages = map[string]bool{
	"grade3": true,
	"grade4": true,
	"grade5": true,
	"grade6": true,
}

func IsValidStage(stage string) bool {
	_, ok := StageLabels[stage]
	return ok
}

func IsTusbhaStage(stage string) bool {
	return TusbhaStages[stage]
}

// StageLabel falls back to the raw slug when the stage is unknown, same as
// the page headers do.
func StageLabel(stage string) string {
	if label, ok := StageLabels[stage]; ok {
		return label
	}
	return stage
}
