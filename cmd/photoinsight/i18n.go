// Package main provides localization for the photoinsight CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Chinese translations for CLI messages.
	l10n.Register("zh", l10n.LexiconMap{
		// Flag categories
		"Logging":     "日志",
		"Debug":       "调试",
		"Export":      "导出",
		"Compression": "压缩",

		// Root command
		"Render photo-evaluation share cards and size-bounded uploads": "生成摄影点评分享卡片并压缩上传图片",
		"YAML configuration file":                                      "YAML 配置文件",
		"Log level (debug, info, warn, error)":                         "日志级别 (debug, info, warn, error)",
		"Suppress all log output":                                      "不输出任何日志",
		"Save layout, card and compression attempts for inspection":    "保存布局、卡片和压缩尝试以便检查",
		"Directory for debug output":                                   "调试输出目录",
		"Export platform (desktop, mobile)":                            "导出平台 (desktop, mobile)",
		"Upload size budget in megabytes":                              "上传文件大小上限 (MB)",

		// card
		"Render a share card for a photo":                  "为照片生成分享卡片",
		"YAML or JSON share-card request file":             "YAML 或 JSON 格式的卡片请求文件",
		"JSON payload returned by the analysis service":    "分析服务返回的 JSON",
		"Card title":                                       "卡片标题",
		"Tag shown on the card (repeatable)":               "卡片上显示的标签 (可重复)",
		"Write the card JPEG here instead of exporting it": "将卡片 JPEG 写入此路径而不导出",
		"Directory for downloaded cards":                   "卡片下载目录",
		"Write a Markdown summary to this path":            "将 Markdown 摘要写入此路径",
		"Exactly one photo is required":                    "需要且仅需要一张照片",

		// compress
		"Compress a photo to the upload size budget": "将照片压缩到上传大小上限以内",
		"Output path (default: next to the input)":   "输出路径 (默认: 与输入文件同目录)",

		// exif
		"Print the camera metadata of a photo": "显示照片的相机参数",

		// serve
		"Serve the HTTP API":                          "启动 HTTP API 服务",
		"Listen address (default from config, :8080)": "监听地址 (默认取配置, :8080)",
	})
}
