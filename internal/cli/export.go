package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/rcliao/qalam/internal/store"
)

// xzMagic opens every xz stream.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached entries as JSON",
		Long:  "Export cached entries as JSON. Output is xz-compressed with --xz or when --out ends in .xz.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Write to file instead of stdout")
	cmd.Flags().Bool("xz", false, "Compress output with xz")

	cacheCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")
	compress, _ := cmd.Flags().GetBool("xz")
	if strings.HasSuffix(out, ".xz") {
		compress = true
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.ExportAll(cmd.Context(), tableFlag(cmd))
	if err != nil {
		exitErr("export", err)
	}

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			exitErr("export", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeEntries(w, entries, compress); err != nil {
		exitErr("export", err)
	}
}

// writeEntries encodes entries as indented JSON, optionally through xz.
func writeEntries(w io.Writer, entries store.Entries, compress bool) error {
	b, err := marshalNoEscape(entries)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if !compress {
		_, err = w.Write(b)
		return err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := xw.Write(b); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

// readEntries decodes an export, decompressing it first when it starts
// with the xz magic bytes.
func readEntries(r io.Reader) (store.Entries, error) {
	var entries store.Entries
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))

	var src io.Reader = br
	if bytes.Equal(head, xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return entries, fmt.Errorf("xz reader: %w", err)
		}
		src = xr
	}
	if err := json.NewDecoder(src).Decode(&entries); err != nil {
		return entries, fmt.Errorf("parse json: %w", err)
	}
	return entries, nil
}
