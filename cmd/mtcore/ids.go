// Copyright (c) 2025 @AmarnathCJD

package main

import (
	"fmt"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/telegram"
)

func fileIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fileid",
		Short: "Bot API style file ids",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "decode <file id>",
		Short: "Decode a file id and print the location it points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := telegram.DecodeFileID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s file on dc %d\n", f.Type, f.DcID)
			pp.Fprintln(out, f)
			if loc, err := f.Location(); err == nil {
				pp.Fprintln(out, loc)
			}
			return nil
		},
	})
	return cmd
}

func peerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Marked peer ids",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "classify <id>...",
		Short: "Print the kind and bare id of marked peer ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("%q is not a number", arg)
				}
				kind, err := session.GetPeerType(id)
				if err != nil {
					return err
				}
				bare := id
				switch kind {
				case session.KindChat:
					bare = -id
				case session.KindChannel:
					bare = session.GetChannelID(id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\n", id, kind, bare)
			}
			return nil
		},
	})
	return cmd
}
