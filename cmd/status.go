package cmd

import (
	"fmt"
	"os"

	"cbstart/config"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示当前的快速启动配置",
	Long:  "显示 settings.json 中配置的默认API密钥、默认模型和快速启动状态",
	Run: func(cmd *cobra.Command, args []string) {
		configManager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		settings, err := configManager.LoadSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Println("\n💡 提示: 运行 'cbstart defaults' 配置快速启动")
			os.Exit(1)
		}

		fmt.Println("当前设置:")
		if settings.QuickStart {
			fmt.Println("  快速启动: 开启")
		} else {
			fmt.Println("  快速启动: 关闭")
		}
		if settings.DefaultAPIKey != "" {
			fmt.Printf("  默认API密钥: %s\n", settings.DefaultAPIKey)
		}
		if settings.DefaultModel != "" {
			fmt.Printf("  默认模型: %s\n", settings.DefaultModel)
		}
		if settings.AlwaysResume {
			fmt.Println("  自动恢复会话: 开启")
		}

		if settings.QuickStart && (settings.DefaultAPIKey == "" || settings.DefaultModel == "") {
			fmt.Println("\n⚠️  快速启动已开启但默认值不完整，将回退到交互选择")
		}

		fmt.Println("\n💡 提示: 运行 'cbstart doctor' 检查配置文件和依赖")
	},
}
