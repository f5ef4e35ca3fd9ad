package timecode

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rhyrak/hall-schedule/pkg/model"
)

var dayTokens = map[model.Weekday]string{
	model.Monday:    "M",
	model.Tuesday:   "T",
	model.Wednesday: "W",
	model.Thursday:  "Th",
	model.Friday:    "F",
}

// Format writes slots back in schedule notation, one span per run of
// consecutive blocks: "M 09:00-10:00, W 14:00-14:29". Encode(Format(s))
// returns s for any sorted, duplicate-free s.
func Format(slots []model.SlotID) string {
	sorted := slices.Clone(slots)
	slices.SortFunc(sorted, model.SlotID.Compare)
	sorted = slices.Compact(sorted)

	var spans []string
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1].Day == sorted[i].Day && sorted[j+1].HalfHour == sorted[j].HalfHour+1 {
			j++
		}
		// the end minute must round back onto the last block
		last := sorted[j]
		end := last.Hour()*60 + 29
		if last.Minute() == 30 {
			end = (last.Hour() + 1) * 60
		}
		spans = append(spans, fmt.Sprintf("%s %02d:%02d-%02d:%02d",
			dayTokens[sorted[i].Day], sorted[i].Hour(), sorted[i].Minute(), end/60, end%60))
		i = j + 1
	}
	return strings.Join(spans, ", ")
}
