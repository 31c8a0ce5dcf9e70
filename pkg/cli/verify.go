// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/checksum"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check generated files against checksums.txt",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "Output directory written by convert --checksums",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("output")
			mismatches, err := checksum.Verify(ctx, dir)
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintln(stderr(cmd), m.String())
			}
			if len(mismatches) > 0 {
				return errors.NewWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("%d file(s) do not match checksums", len(mismatches)),
					map[string]any{"path": dir})
			}
			fmt.Fprintf(stdout(cmd), "All files in %s match %s\n", dir, checksum.ChecksumFileName)
			return nil
		},
	}
}
