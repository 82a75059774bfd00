package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quillpress/blog-api/config"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/web"
	"github.com/quillpress/blog-api/web/service"

	"github.com/spf13/cobra"
)

func initLogger() {
	level, err := logger.LevelFromConfig(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

func initDB() error {
	cfg, err := config.GetDatabaseConfig()
	if err != nil {
		return err
	}
	return database.InitDB(cfg)
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())
	initLogger()
	defer logger.CloseLogger()

	if err := initDB(); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server, err := web.NewServer()
	if err != nil {
		logger.Error(err)
		return
	}
	if err = server.Start(); err != nil {
		logger.Error(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP, restarting server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server, err = web.NewServer()
			if err != nil {
				logger.Error(err)
				return
			}
			if err = server.Start(); err != nil {
				logger.Error(err)
				return
			}
		default:
			logger.Infof("Received %v, shutting down", sig)
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	fmt.Println("Start migrating database...")
	if err := initDB(); err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()
	fmt.Println("Migration done!")
}

func showSetting() {
	cfg, err := config.GetDatabaseConfig()
	if err != nil {
		fmt.Println("read database settings failed:", err)
		return
	}
	fmt.Println("current settings as follows:")
	fmt.Println("version:", config.GetVersion())
	fmt.Println("listen:", config.GetListen())
	fmt.Println("port:", config.GetPort())
	fmt.Println("log level:", config.GetLogLevel())
	fmt.Println("log folder:", config.GetLogFolder())
	fmt.Println("database:", cfg.Type)
	if cfg.IsSQLite() {
		fmt.Println("database path:", cfg.SQLite.Path)
	} else {
		fmt.Printf("database host: %s:%d/%s\n", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
	}
	if config.GetJWTSecret() == "" {
		fmt.Println("jwt secret: not set")
	} else {
		fmt.Println("jwt secret: set")
	}
}

func promoteUser(email, role string) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.NewUserService(nil)
	if err := userService.Promote(email, role); err != nil {
		fmt.Println("promote user failed:", err)
		return
	}
	fmt.Printf("user %s is now %s\n", email, role)
}

func resetPassword(email, password string) {
	if err := initDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.NewUserService(nil)
	if err := userService.ResetPassword(email, password); err != nil {
		fmt.Println("reset password failed:", err)
		return
	}
	fmt.Println("reset password success")
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Println("load .env failed:", err)
	}

	var rootCmd = &cobra.Command{
		Use: config.GetName(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema and seed the roles",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Inspect settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	settingCmd.AddCommand(showCmd)

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var promoteCmd = &cobra.Command{
		Use:   "promote",
		Short: "Assign a role to a user",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			promoteUser(email, role)
		},
	}

	promoteCmd.Flags().String("email", "", "email of the user")
	promoteCmd.Flags().String("role", "admin", "role title: reader, author, moderator or admin")
	_ = promoteCmd.MarkFlagRequired("email")

	var resetPasswordCmd = &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a user",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			resetPassword(email, password)
		},
	}

	resetPasswordCmd.Flags().String("email", "", "email of the user")
	resetPasswordCmd.Flags().String("password", "", "new password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")

	userCmd.AddCommand(promoteCmd, resetPasswordCmd)

	rootCmd.AddCommand(runCmd, migrateCmd, settingCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
