package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/database"
	"github.com/sydlexius/vocasync/internal/library"
	"github.com/sydlexius/vocasync/internal/metadata"
	"github.com/sydlexius/vocasync/internal/syncer"
)

func (a *app) searchTrackCmd() *cobra.Command {
	var (
		artist      string
		album       string
		length      time.Duration
		externalIDs map[string]string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "search-track <title> [title...]",
		Short: "Search track candidates for one or more titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			items := make([]metadata.LocalItem, 0, len(args))
			for _, title := range args {
				items = append(items, metadata.LocalItem{
					Title:       title,
					Artist:      artist,
					Album:       album,
					Length:      length,
					ExternalIDs: externalIDs,
				})
			}

			if len(items) == 1 {
				cands, err := e.ItemCandidates(cmd.Context(), items[0])
				if err != nil {
					return err
				}
				return a.printJSON(cands)
			}
			return a.printJSON(e.ResolveBatch(cmd.Context(), items, concurrency))
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "local artist")
	cmd.Flags().StringVar(&album, "album", "", "local album")
	cmd.Flags().DurationVar(&length, "length", 0, "local track length, e.g. 4m21s")
	cmd.Flags().StringToStringVar(&externalIDs, "external-id", nil, "known provider ID, e.g. musicbrainz=<id>")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel lookups when searching several titles")
	return cmd
}

func (a *app) searchAlbumCmd() *cobra.Command {
	var (
		artist      string
		tracks      int
		externalIDs map[string]string
	)
	cmd := &cobra.Command{
		Use:   "search-album <album>",
		Short: "Search album candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			cands, err := e.AlbumCandidates(cmd.Context(), metadata.LocalAlbum{
				Album:       args[0],
				Artist:      artist,
				TrackCount:  tracks,
				ExternalIDs: externalIDs,
			})
			if err != nil {
				return err
			}
			return a.printJSON(cands)
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "local album artist")
	cmd.Flags().IntVar(&tracks, "tracks", 0, "local track count")
	cmd.Flags().StringToStringVar(&externalIDs, "external-id", nil, "known provider ID, e.g. discogs=<id>")
	return cmd
}

func (a *app) trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <id>",
		Short: "Fetch a track by catalog ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			info, err := e.TrackForID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(info)
		},
	}
}

func (a *app) albumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "album <id>",
		Short: "Fetch an album with its tracks by catalog ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			info, err := e.AlbumForID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(info)
		},
	}
}

func (a *app) instancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List the configured catalog instances with their resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			clients := a.registry.All()
			instances := make([]catalog.Instance, 0, len(clients))
			for _, c := range clients {
				instances = append(instances, c.Instance())
			}
			return a.printJSON(instances)
		},
	}
}

func (a *app) syncCmd(inst catalog.Instance) *cobra.Command {
	var pretend bool
	cmd := &cobra.Command{
		Use:   inst.SubcommandPrefix + "sync",
		Short: fmt.Sprintf("Refresh library items and albums tagged from %s", inst.DisplayName),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := database.Open(ctx, a.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					a.logger.Error("closing database", "error", err)
				}
			}()
			if err := database.Migrate(ctx, db); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			a.instanceName = inst.Name
			e, err := a.engine()
			if err != nil {
				return err
			}
			report, err := syncer.New(library.NewService(db), e, a.logger).Run(ctx, syncer.Options{Pretend: pretend})
			if err != nil {
				return fmt.Errorf("syncing %s: %w", inst.Name, err)
			}
			return a.printJSON(report)
		},
	}
	cmd.Flags().BoolVarP(&pretend, "pretend", "p", false, "show changes without storing them")
	return cmd
}
