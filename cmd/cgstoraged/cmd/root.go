package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/cloudgoose/storage/pkg/account"
	"github.com/cloudgoose/storage/pkg/cgdb"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/clog"
	"github.com/cloudgoose/storage/pkg/config"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/cloudgoose/storage/pkg/tree"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cgstoraged",
	Short: "Run the cloud storage metadata and sharing-link server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		c := config.MustLoadFromDotenv()

		if err := clog.Init(config.LogLevel()); err != nil {
			log.Fatalf("Unable to configure logging: %s", err)
		}

		storageRoot := config.StorageRoot()
		if err := os.MkdirAll(storageRoot, 0755); err != nil {
			log.Fatalf("Unable to create storage root %s: %s", storageRoot, err)
		}
		log.Infof("Storage root: %s", storageRoot)

		db := cgdb.MustConnectToDB(cgdb.MakeDSNFromConfig(c.GetKey))
		if err := cgdb.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %s", err)
		}

		stors := stor.NewGormStors(db)
		content := cstore.NewFSStore(storageRoot)

		trees := tree.NewService(stors, content)
		accounts := account.NewService(stors.UserStor)
		registry := linkreg.NewRegistry(stors.SharingLinkStor, linkreg.NewMemTable())

		// Sharing-link registrations don't survive a restart. Rebuild the
		// resource table before the server starts taking requests.
		registered, err := registry.RegisterAll()
		if err != nil {
			log.Fatalf("Unable to register sharing links: %s", err)
		}
		log.Infof("Registered %d sharing links", registered)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		setupRoutes(e, RouteOpts{
			accounts: accounts,
			trees:    trees,
			stors:    stors,
			content:  content,
			registry: registry,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("CGS_PORT", "1380")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
