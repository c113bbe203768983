package util

import (
	"os/exec"
	"runtime"
)

// browserCommands 各平台打开 URL 的命令，按顺序尝试
func browserCommands(url string) [][]string {
	switch runtime.GOOS {
	case "windows":
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"firefox", url},
			{"chromium-browser", url},
		}
	}
}

// OpenBrowser 用默认浏览器打开 url，全部方式失败时返回第一个错误
func OpenBrowser(url string) error {
	var firstErr error
	for _, args := range browserCommands(url) {
		err := exec.Command(args[0], args[1:]...).Start()
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
