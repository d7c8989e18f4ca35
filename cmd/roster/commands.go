package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/domain"
	"github.com/ward-roster/roster/backend/internal/roster"
)

const (
	cellAbsent = "·"
	cellOpen   = "-"
)

var (
	overwrite    bool
	exportFormat string
	outputPath   string
	saveResult   bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "显示排班表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := renderRows(cmd.OutOrStdout(), sess.Catalog(), sess.Rows()); err != nil {
			return err
		}
		renderWarnings(cmd.OutOrStdout(), sess.Warnings())
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <date> <shift> <staff-id>",
	Short: "安排某人值班并保存",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := sess.Assign(args[0], args[1], args[2], domain.NoteManual); err != nil {
			if roster.IsConstraintError(err) {
				return fmt.Errorf("不能将 %s 安排到 %s 的 %s: %w", args[2], args[0], args[1], err)
			}
			return err
		}
		if err := sess.Save(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已将 %s 安排到 %s 的 %s\n", args[2], args[0], args[1])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <date> <shift>",
	Short: "清空某个班次并保存",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := sess.Clear(args[0], args[1]); err != nil {
			return err
		}
		if err := sess.Save(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已清空 %s 的 %s\n", args[0], args[1])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "导入 CSV 或 JSON 排班表，合并后保存",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		res, err := sess.Import(cmd.Context(), filepath.Base(args[0]), data, overwrite)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "已导入 %d 天\n", len(res.Grid))
		for _, u := range res.Unresolved {
			fmt.Fprintf(out, "  第 %d 行 %s %s: 找不到员工 %q\n", u.Line, u.Date, u.ShiftKey, u.Name)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出排班表为 CSV 或 xlsx",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return fmt.Errorf("不支持的格式 %q", exportFormat)
		}
		if exportFormat == "xlsx" && outputPath == "" {
			return fmt.Errorf("导出 xlsx 时必须通过 --output 指定文件")
		}

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		var body []byte
		switch exportFormat {
		case "csv":
			text, err := sess.Export()
			if err != nil {
				return err
			}
			body = []byte(text)
		case "xlsx":
			buf, err := sess.ExportWorkbook()
			if err != nil {
				return err
			}
			body = buf.Bytes()
		}

		if outputPath == "" {
			_, err = cmd.OutOrStdout().Write(body)
			return err
		}
		return os.WriteFile(outputPath, body, 0o644)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "调用排班服务生成排班表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if err := sess.Generate(cmd.Context()); err != nil {
			return err
		}
		if saveResult {
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}
		}
		return renderRows(cmd.OutOrStdout(), sess.Catalog(), sess.Rows())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "检查排班表的数据完整性",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		warnings := sess.Warnings()
		if len(warnings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "没有发现问题")
			return nil
		}
		renderWarnings(cmd.OutOrStdout(), warnings)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&overwrite, "overwrite", false, "用导入的排班表整体替换当前排班表")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "导出格式 (csv 或 xlsx)")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "输出文件，为空时写到标准输出")
	generateCmd.Flags().BoolVar(&saveResult, "save", false, "生成后保存到 API")
}

// renderRows 中 · 表示班次尚未生成，- 表示无人值班，* 表示满足了意愿
func renderRows(w io.Writer, c *catalog.Catalog, rows []roster.RowView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"Date", "Weekday"}
	for _, key := range c.OrderedKeys() {
		header = append(header, c.DisplayName(key))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range rows {
		fields := []string{row.Date, row.Weekday}
		for _, cell := range row.Cells {
			fields = append(fields, cellText(cell))
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}

	return tw.Flush()
}

func cellText(cell roster.CellView) string {
	switch {
	case !cell.Materialized:
		return cellAbsent
	case cell.StaffID == "":
		return cellOpen
	case cell.WishGranted:
		return cell.StaffName + "*"
	default:
		return cell.StaffName
	}
}

func renderWarnings(w io.Writer, warnings []roster.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "警告 [%s] %s\n", warning.Kind, warning.Message)
	}
}
