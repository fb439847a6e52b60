// Copyright (c) 2025 @AmarnathCJD

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

type sessionView struct {
	DC       int
	Address  string
	APIID    uint32
	TestMode bool
	// KeyID identifies the auth key without printing it.
	KeyID  string
	UserID uint64
	IsBot  bool
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session strings and files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <session string>",
		Short: "Decode a session string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.DecodeStringSession(args[0])
			if err != nil {
				return err
			}
			pp.Fprintln(cmd.OutOrStdout(), sessionView{
				DC:       int(s.DcID),
				Address:  utils.GetHostIp(int(s.DcID), s.TestMode, false),
				APIID:    s.APIID,
				TestMode: s.TestMode,
				KeyID:    hex.EncodeToString(utils.AuthKeyHash(s.AuthKey[:])),
				UserID:   s.UserID,
				IsBot:    s.IsBot,
			})
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export <session.db>",
		Short: "Print the session string of a SQLite session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := session.NewSQLiteStorage(args[0], "")
			if err := st.Open(cmd.Context()); err != nil {
				return err
			}
			defer st.Close()

			s, err := session.ExportString(cmd.Context(), st)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	})
	return cmd
}
