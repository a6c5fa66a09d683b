package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"articledesk/pkg/db"
	"articledesk/pkg/models"
	"articledesk/pkg/server"
	"articledesk/pkg/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// legacyArticle 早期flat-file版本落盘的文章结构
type legacyArticle struct {
	Id          string              `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

func NewImportCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "把早期flat-file版本的文章文件导入数据库",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFilePath := cmd.Root().PersistentFlags().Lookup("config").Value.String()

			cfg, err := server.TryLoadFromDisk(configFilePath)
			if err != nil {
				zap.S().Errorf("配置文件加载错误:%s", err.Error())
				return fmt.Errorf("无法加载配置文件: %w", err)
			}

			if err := db.InitDB(cfg.DB); err != nil {
				zap.S().Errorf("数据库初始化失败. [%s]", err.Error())
				return fmt.Errorf("数据库初始化失败: %w", err)
			}
			st, err := store.NewGormStore(db.GetDB())
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			return runImport(st, dataDir)
		},
	}

	cmd.Flags().StringVar(&dataDir, "dataDir", "./data", "flat-file文章目录")
	return cmd
}

func runImport(st store.Store, dataDir string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			zap.S().Infof("目录 %s 不存在，没有可导入的数据", dataDir)
			return nil
		}
		return errors.Wrap(err, "读取数据目录失败")
	}

	var imported, skipped, failed int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dataDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			zap.S().Errorf("读取 %s 失败: %v", path, err)
			failed++
			continue
		}
		var legacy legacyArticle
		if err := json.Unmarshal(data, &legacy); err != nil {
			zap.S().Errorf("解析 %s 失败: %v", path, err)
			failed++
			continue
		}
		//已经存在的跳过
		if _, err := st.GetArticle(legacy.Id); err == nil {
			zap.S().Debugf("跳过 %s (已存在)", legacy.Id)
			skipped++
			continue
		}
		attachments := legacy.Attachments
		if attachments == nil {
			attachments = []models.Attachment{}
		}
		article := &models.Article{
			Id:          legacy.Id,
			Title:       legacy.Title,
			Content:     legacy.Content,
			Attachments: attachments,
		}
		if err := st.CreateArticle(article); err != nil {
			zap.S().Errorf("导入 %s 失败: %v", legacy.Id, err)
			failed++
			continue
		}
		zap.S().Infof("已导入 %s", legacy.Id)
		imported++
	}

	zap.S().Infof("导入完成: %d 成功, %d 跳过, %d 失败", imported, skipped, failed)
	return nil
}
