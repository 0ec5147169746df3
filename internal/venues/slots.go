package venues

import "fmt"

// BuildSlots lays out one-hour slots from openHour to closeHour and marks a
// slot booked when any window overlaps it.
func BuildSlots(openHour, closeHour int, windows []TimeWindow) []SlotResponse {
	if closeHour <= openHour {
		return []SlotResponse{}
	}

	slots := make([]SlotResponse, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		start := fmt.Sprintf("%02d:00", h)
		end := fmt.Sprintf("%02d:00", h+1)

		booked := false
		for _, w := range windows {
			// HH:MM strings order the same way as the times they encode
			if w.Start < end && w.End > start {
				booked = true
				break
			}
		}

		slots = append(slots, SlotResponse{
			Start:  start,
			End:    end,
			Label:  start + "-" + end,
			Booked: booked,
		})
	}
	return slots
}
