// file: utils/time.go
package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTimeFormat 时间字符串解析失败
var ErrTimeFormat = errors.New("invalid time format")

// ParseTimeToMilliseconds 把人工录入或设备上报的时间串换算成毫秒
// 支持 ss.f / mm:ss.ff / h:mm:ss.fff 三种形式，小数位 1~3 位，超出截断到 3 位
// 分、秒必须小于 60，缺失的高位按 0 处理
func ParseTimeToMilliseconds(timeStr string) (int64, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return 0, fmt.Errorf("%w: empty string", ErrTimeFormat)
	}

	parts := strings.Split(timeStr, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
	}

	var hours, minutes int64
	var err error

	secondsPart := parts[len(parts)-1]
	if len(parts) >= 2 {
		minutes, err = strconv.ParseInt(parts[len(parts)-2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
		if minutes >= 60 || minutes < 0 {
			return 0, fmt.Errorf("%w: invalid minutes in %q", ErrTimeFormat, timeStr)
		}
	}
	if len(parts) == 3 {
		hours, err = strconv.ParseInt(parts[0], 10, 64)
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
	}

	var seconds, millis int64
	if dot := strings.Index(secondsPart, "."); dot >= 0 {
		secStr, decimals := secondsPart[:dot], secondsPart[dot+1:]
		seconds, err = strconv.ParseInt(secStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
		if len(decimals) == 0 {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
		if len(decimals) > 3 {
			// 超过 3 位小数只取前 3 位
			decimals = decimals[:3]
		}
		frac, err := strconv.ParseInt(decimals, 10, 64)
		if err != nil || frac < 0 {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
		switch len(decimals) {
		case 1:
			millis = frac * 100
		case 2:
			millis = frac * 10
		default:
			millis = frac
		}
	} else {
		seconds, err = strconv.ParseInt(secondsPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
		}
	}
	if seconds >= 60 || seconds < 0 {
		return 0, fmt.Errorf("%w: invalid seconds in %q", ErrTimeFormat, timeStr)
	}

	return hours*60*60*1000 + minutes*60*1000 + seconds*1000 + millis, nil
}

// FormatMilliseconds 输出 mm:ss.hh（百分秒），导出 CSV 用
func FormatMilliseconds(ms int64) string {
	if ms <= 0 {
		return "0"
	}
	hundredths := (ms / 10) % 100
	seconds := (ms / 1000) % 60
	minutes := (ms / (1000 * 60)) % 60
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, hundredths)
}

// FormatMillisecondsTenths 输出 mm:ss.t（十分秒），成绩导出用
func FormatMillisecondsTenths(ms int64) string {
	if ms <= 0 {
		return "0"
	}
	tenths := (ms / 100) % 10
	seconds := (ms / 1000) % 60
	minutes := (ms / (1000 * 60)) % 60
	return fmt.Sprintf("%02d:%02d.%01d", minutes, seconds, tenths)
}
