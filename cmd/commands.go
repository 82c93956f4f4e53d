package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/ochronus/gozipline/internal/http"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/ochronus/gozipline/internal/upload"
	"github.com/ochronus/gozipline/internal/utils"
	"github.com/spf13/cobra"
)

const versionCheckTimeout = 10 * time.Second

func (c *cli) uploadCommand() *cobra.Command {
	var (
		format       string
		expiry       string
		password     string
		maxViews     int
		compression  int
		folder       string
		originalName string
		noJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload files and print their links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			opts, err := container.Config.UploadOptions()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("format") {
				if opts.Format, err = zipline.ParseNameFormat(format); err != nil {
					return err
				}
			}
			if flags.Changed("expiry") {
				if opts.Expiry, err = zipline.ParseExpiry(expiry); err != nil {
					return err
				}
			}
			if flags.Changed("max-views") {
				opts.MaxViews = &maxViews
			}
			if flags.Changed("compression") {
				opts.CompressionPercent = &compression
			}
			if password != "" {
				opts.Password = password
			}
			if folder != "" {
				opts.Folder = folder
			}
			opts.NoJSON = noJSON

			for _, path := range args {
				payload, err := zipline.PayloadFromPath(path, "")
				if err != nil {
					return err
				}
				fileOpts := opts
				if originalName != "" {
					fileOpts.OriginalName = originalName
				} else if container.Config.Upload.KeepOriginalName {
					fileOpts.OriginalName = payload.Filename
				}

				container.Logger.Debugf("uploading %s (%s, %s)", path, humanize.Bytes(uint64(len(payload.Data))), payload.ContentType)
				result, err := container.Client.Upload(cmd.Context(), payload, fileOpts)
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				for _, link := range result.URLs() {
					fmt.Fprintln(c.out, link)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "", "Name format: random, uuid, date, name or gfycat")
	flags.StringVarP(&expiry, "expiry", "e", "", "Delete after a duration (24h, 7d) or at an ISO timestamp")
	flags.StringVarP(&password, "password", "p", "", "Password protect the file")
	flags.IntVar(&maxViews, "max-views", 0, "Delete after this many views")
	flags.IntVar(&compression, "compression", 0, "Image compression percentage (0-100)")
	flags.StringVar(&folder, "folder", "", "Folder ID to upload into")
	flags.StringVar(&originalName, "original-name", "", "Original file name to store")
	flags.BoolVar(&noJSON, "no-json", false, "Ask the server for a plain text answer")

	return cmd
}

func (c *cli) shortenCommand() *cobra.Command {
	var opts zipline.ShortenOptions
	var maxViews int

	cmd := &cobra.Command{
		Use:   "shorten URL",
		Short: "Shorten a URL and print the link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			if cmd.Flags().Changed("max-views") {
				opts.MaxViews = &maxViews
			}
			result, err := container.Client.ShortenURL(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("shorten %s: %w", args[0], err)
			}
			fmt.Fprintln(c.out, result.Link())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Vanity, "vanity", "", "Custom code for the link")
	flags.IntVar(&maxViews, "max-views", 0, "Disable the link after this many views")
	flags.StringVarP(&opts.Password, "password", "p", "", "Password protect the link")
	flags.BoolVar(&opts.NoJSON, "no-json", false, "Ask the server for a plain text answer")

	return cmd
}

func (c *cli) filesCommand() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Work with uploaded files",
	}

	var (
		opts listFilesFlags
		all  bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			listOpts := opts.options()
			var (
				files  []*zipline.File
				footer string
			)
			if all {
				for f, err := range container.Client.IterFiles(cmd.Context(), listOpts) {
					if err != nil {
						return err
					}
					files = append(files, f)
				}
			} else {
				page, err := container.Client.ListFiles(cmd.Context(), listOpts)
				if err != nil {
					return err
				}
				for i := range page.Page {
					files = append(files, &page.Page[i])
				}
				footer = fmt.Sprintf("page %d of %d, %d files total\n", max(listOpts.Page, 1), page.Pages, page.Total)
			}

			table := newTable(c, []string{"ID", "Name", "Type", "Size", "Views", "Uploaded"})
			for _, f := range files {
				table.Append([]string{
					f.ID,
					f.Name,
					f.Type,
					humanize.Bytes(uint64(f.Size)),
					strconv.Itoa(f.Views),
					humanize.Time(f.CreatedAt),
				})
			}
			table.Render()
			fmt.Fprint(c.out, footer)
			return nil
		},
	}
	listCmd.Flags().IntVar(&opts.page, "page", 1, "Page to show")
	listCmd.Flags().IntVar(&opts.perPage, "per-page", 0, "Files per page (server default when 0)")
	listCmd.Flags().BoolVar(&opts.favorite, "favorite", false, "Only favorites")
	listCmd.Flags().StringVar(&opts.search, "search", "", "Search file names")
	listCmd.Flags().BoolVar(&all, "all", false, "List every page")

	filesCmd.AddCommand(listCmd)
	return filesCmd
}

// listFilesFlags are the flags of 'files list'
type listFilesFlags struct {
	page     int
	perPage  int
	favorite bool
	search   string
}

func (f listFilesFlags) options() zipline.ListFilesOptions {
	return zipline.ListFilesOptions{
		Page:        f.page,
		PerPage:     f.perPage,
		Favorite:    f.favorite,
		SearchQuery: f.search,
	}
}

func (c *cli) foldersCommand() *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "Work with folders",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			folders, err := container.Client.ListFolders(cmd.Context(), true)
			if err != nil {
				return err
			}

			table := newTable(c, []string{"ID", "Name", "Public", "Uploads", "Files", "Created"})
			for _, f := range folders {
				table.Append([]string{
					f.ID,
					f.Name,
					strconv.FormatBool(f.Public),
					strconv.FormatBool(f.AllowUploads),
					strconv.Itoa(len(f.Files)),
					humanize.Time(f.CreatedAt),
				})
			}
			table.Render()
			return nil
		},
	}

	foldersCmd.AddCommand(listCmd)
	return foldersCmd
}

func (c *cli) importCommand() *cobra.Command {
	var (
		workers int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Upload every file in a directory and write a name to link map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			cfg := container.Config
			if cmd.Flags().Changed("workers") {
				cfg.Import.Workers = workers
			}
			if output != "" {
				cfg.Import.Output = output
			}
			opts, err := cfg.UploadOptions()
			if err != nil {
				return err
			}

			manager := upload.NewManager(cfg, container.Logger, container.Client, opts)
			report, err := manager.ImportDirectory(cmd.Context(), args[0])
			if report != nil {
				if werr := report.WriteJSON(cfg.Import.Output); werr != nil {
					return werr
				}
				fmt.Fprintf(c.out, "%d uploaded, %d failed, links written to %s\n",
					len(report.Uploaded()), len(report.Failed()), cfg.Import.Output)
				for _, name := range report.Failed() {
					fmt.Fprintln(c.errOut, color.New(color.FgYellow).Render("failed: ")+name)
				}
			}
			if err != nil {
				return err
			}
			if n := len(report.Failed()); n > 0 {
				return &exitError{code: exitFailure, err: fmt.Errorf("%d files failed to upload", n)}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel uploads")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the name to link map to")

	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Upload files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			opts, err := container.Config.UploadOptions()
			if err != nil {
				return err
			}
			manager := upload.NewManager(container.Config, container.Logger, container.Client, opts)
			manager.OnResult = func(r upload.Result) {
				if r.Status == upload.StatusUploaded {
					fmt.Fprintf(c.out, "%s %s\n", r.Job.Name, r.URL)
				}
			}
			return manager.Watch(cmd.Context(), args[0])
		},
	}
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a local relay that forwards uploads to Zipline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.connect()
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Config.ValidateRelay(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			container.Logger.Infof("Starting gozipline relay, version %s", zipline.Version)
			server := http.NewServer(container)
			return server.StartWithContext(cmd.Context())
		},
	}
}

func (c *cli) generateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Generate config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := utils.NewPrompter(c.in, c.errOut)
			server, token, err := utils.PromptCredentials(prompter, c.server, c.token)
			if err != nil {
				return err
			}
			return utils.GenerateConfig(c.configPath, server, token)
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.out, "gozipline version %s\n", zipline.Version)

			cfg, err := c.loadConfig()
			if err != nil || cfg.ValidateConnection() != nil {
				return nil
			}
			client, err := zipline.NewClient(cfg.Server, cfg.Token)
			if err != nil {
				return nil
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), versionCheckTimeout)
			defer cancel()
			info, err := client.ServerVersion(ctx)
			if err != nil {
				fmt.Fprintln(c.errOut, color.New(color.FgYellow).Render("could not reach server: ")+err.Error())
				return nil
			}
			fmt.Fprintf(c.out, "server %s version %s\n", client.BaseURL(), info.Version)
			if err := zipline.CheckServerVersion(info.Version); err != nil {
				fmt.Fprintln(c.errOut, color.New(color.FgYellow).Render("warning: ")+err.Error())
			}
			return nil
		},
	}
}

// newTable returns a borderless table writing to the command output
func newTable(c *cli, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
