package recognition

import (
	"context"
	"fmt"
)

// AttendanceRecords returns the attendance log.
func (c *Client) AttendanceRecords(ctx context.Context) ([]Record, error) {
	records, err := doGetJSON[[]Record](ctx, c, "attendance")
	if err != nil {
		return nil, fmt.Errorf("could not fetch attendance records: %w", err)
	}
	return *records, nil
}
