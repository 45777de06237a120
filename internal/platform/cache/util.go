package cache

import (
	"time"
)

// TimeUntilNextSevenPMIST は次の19時（インド標準時）までの期間を返します。
// BSE/NSEの日次データは市場終了後の夕方に確定するため、キャッシュの
// TTLとして使います。
func TimeUntilNextSevenPMIST() time.Duration {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Now().In(loc)

	// 次の19時を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, loc)

	// 今日の19時が既に過ぎている場合は明日の19時を使用
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
