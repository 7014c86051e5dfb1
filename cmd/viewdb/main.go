package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"StockDeck/pkg/config"
	"StockDeck/pkg/database"
	"StockDeck/pkg/schema"
)

// viewdb 查看数据库内容：表结构、记录总数、前10条数据和列名清单

const previewLimit = 10
const cellMaxWidth = 20

func main() {
	log := logrus.New()

	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		log.Fatalf("数据库文件不存在，请先运行 initdb 初始化: %v", err)
	}

	columnSchema := schema.New()
	db, err := database.New(cfg.Database.Path, columnSchema)
	if err != nil {
		log.Fatalf("打开数据库失败: %v", err)
	}
	defer db.Close()

	ddl, err := db.TableDDL()
	if err != nil {
		log.Fatalf("查询表结构失败: %v", err)
	}
	fmt.Println("数据库表结构")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(ddl)
	fmt.Println()

	count, err := db.Count()
	if err != nil {
		log.Fatalf("统计记录数失败: %v", err)
	}
	fmt.Printf("总记录数: %d\n\n", count)

	rows, err := db.Preview(previewLimit)
	if err != nil {
		log.Fatalf("读取数据失败: %v", err)
	}

	fmt.Printf("前 %d 条数据\n", previewLimit)
	fmt.Println(strings.Repeat("=", 60))
	if len(rows) == 0 {
		fmt.Println("数据库中没有数据")
	} else {
		headers := columnSchema.ColumnNames()
		fmt.Println(strings.Join(headers, " | "))
		fmt.Println(strings.Repeat("-", 60))
		for i, row := range rows {
			cells := make([]string, 0, len(headers))
			for _, name := range headers {
				cells = append(cells, formatCell(row[name]))
			}
			fmt.Printf("%d. %s\n", i+1, strings.Join(cells, " | "))
		}
	}
	fmt.Println()

	fmt.Println("所有列名")
	fmt.Println(strings.Repeat("=", 60))
	for i, name := range columnSchema.ColumnNames() {
		fmt.Printf("%d. %s\n", i+1, name)
	}
}

// formatCell 限制单元格显示宽度
func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	s := fmt.Sprint(v)
	if len([]rune(s)) > cellMaxWidth {
		return string([]rune(s)[:cellMaxWidth-3]) + "..."
	}
	return s
}
