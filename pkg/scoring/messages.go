package scoring

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		"✦ Masterpiece":      "✦ 传世之作",
		"◈ Master work":      "◈ 大师作品",
		"◎ Brilliant moment": "◎ 精彩瞬间",
		"○ Worth keeping":    "○ 值得记录",
		"· Keep exploring":   "· 继续探索",

		// Sub-score labels
		"Composition": "构图",
		"Light":       "光影",
		"Color":       "色彩",
		"Technical":   "技术",
		"Expression":  "表达",
	})
}
