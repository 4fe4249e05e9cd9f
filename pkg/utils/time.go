package utils

import "time"

// NowUnixMillis returns the current time in Unix milliseconds.
func NowUnixMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts Unix milliseconds to a UTC time. Zero stays zero.
func MillisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
