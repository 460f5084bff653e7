package sharecard

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		"Overall score":             "综合评分",
		"AI photography aesthetics": "AI 摄影美学诊断",
	})
}
