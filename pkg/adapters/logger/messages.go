package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		// Orchestration (info)
		"Preparing upload %s (%d bytes)":                       "正在准备上传 %s (%d 字节)",
		"Upload ready: %s, %d bytes (quality %d, %d attempts)": "上传文件就绪: %s, %d 字节 (质量 %d, 尝试 %d 次)",
		"Upload unchanged: %s":                                 "文件无需压缩: %s",
		"EXIF: %s":                                             "EXIF: %s",
		"No EXIF metadata in %s":                               "%s 中没有 EXIF 信息",
		"Generating share card for %s":                         "正在为 %s 生成分享卡片",
		"Share card ready: %dx%d, tier %s":                     "分享卡片已生成: %dx%d, 等级 %s",
		"Saved via %s: %s":                                     "已通过 %s 保存: %s",
		"Summary written to %s":                                "摘要已写入 %s",
		"Interrupted, shutting down...":                        "已中断，正在退出...",
		"Card written to %s":                                   "卡片已写入 %s",
		"Compressed %s: %d -> %d bytes":                        "已压缩 %s: %d -> %d 字节",

		// Loader stage
		"Loading photo from %s (timeout %d ms)": "正在从 %s 加载照片 (超时 %d 毫秒)",
		"Photo loaded: %dx%d in %d ms":          "照片已加载: %dx%d, 用时 %d 毫秒",
		"Photo load timed out after %d ms":      "照片加载超时 (%d 毫秒)",

		// Share card stage
		"Rendering share card":                   "正在绘制分享卡片",
		"Card layout: %dx%d, %d diagnosis lines": "卡片布局: %dx%d, 诊断 %d 行",
		"Card encoded: %d bytes":                 "卡片编码完成: %d 字节",

		// Export stage
		"Sharing %s (%d bytes)": "正在分享 %s (%d 字节)",
		"Writing %s (%d bytes)": "正在写入 %s (%d 字节)",

		// Compress stage
		"Resizing %dx%d to %dx%d":            "缩放 %dx%d 至 %dx%d",
		"Attempt %d at quality %d: %d bytes": "第 %d 次尝试, 质量 %d: %d 字节",
		"Skipping %s: not an image (%s)":     "跳过 %s: 不是图片 (%s)",

		// Server
		"Listening on %s":       "正在监听 %s",
		"%s %s %d (%d ms) [%s]": "%s %s %d (%d 毫秒) [%s]",
		"Server stopped":        "服务已停止",
		"Request %s failed: %s": "请求 %s 失败: %s",

		// Warnings
		"Could not decode %s, keeping original: %s": "无法解码 %s, 保留原文件: %s",
		"Could not encode %s, keeping original: %s": "无法编码 %s, 保留原文件: %s",
		"%s is still %d bytes at the quality floor": "%s 在最低质量下仍有 %d 字节",
		"Could not read EXIF from %s: %s":           "无法读取 %s 的 EXIF: %s",
		"Share card failed: %s":                     "分享卡片失败: %s",

		// Errors
		"Generation failed, please retry":                 "生成失败，请重试",
		"Save failed, please long-press to save manually": "保存失败，请长按图片手动保存",
		"Export failed: %s":                               "导出失败: %s",
		"Failed to write output: %s":                      "输出写入失败: %s",
	})
}
