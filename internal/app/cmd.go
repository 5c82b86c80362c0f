package app

import (
	"fmt"
	"io"
	"strings"
)

// Command はcareportalのサブコマンドを表す。
type Command string

const (
	// CommandServe は患者ポータルのAPIサーバーを起動する（既定）。
	CommandServe Command = "serve"
	// CommandWorker は期限切れセッションの定期削除を行う。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中のサーバーの /health を確認する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandHelp は使い方を表示する。
	CommandHelp Command = "help"
)

// commands は使い方に表示する順序と説明。
var commands = []struct {
	cmd  Command
	desc string
}{
	{CommandServe, "start the patient portal API server (default)"},
	{CommandWorker, "delete expired sessions every SESSION_CLEANUP_INTERVAL"},
	{CommandMigrate, "apply database migrations and exit (requires DATABASE_URL)"},
	{CommandHealthcheck, "check GET /health on localhost:SERVER_PORT"},
	{CommandHelp, "show this help"},
}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数が空の場合はserve、-h / --help はhelpとみなす。
// 未知のサブコマンドはエラーを返す。
// 2番目以降の引数は無視する。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}

	switch name := strings.TrimSpace(args[0]); name {
	case "-h", "--help":
		return CommandHelp, nil
	default:
		for _, c := range commands {
			if string(c.cmd) == name {
				return c.cmd, nil
			}
		}
		return "", fmt.Errorf("unknown command %q (run \"careportal help\" for usage)", name)
	}
}

// writeUsage はサブコマンドの一覧をwに書き出す。
func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: careportal [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.cmd, c.desc)
	}
}
