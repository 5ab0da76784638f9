package main

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jdziat/netreq"
)

func getSubcommand(flags *globalFlags) *cobra.Command {
	var query []string
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parsePairs("query item", query)
			if err != nil {
				return err
			}
			return send(cmd, flags, netreq.NewGET(args[0], items))
		},
	}
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query item as key=value (repeatable)")
	return cmd
}

func postSubcommand(flags *globalFlags) *cobra.Command {
	var (
		rawJSON string
		fields  []string
	)
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Send a POST request and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := netreq.Descriptor{URL: args[0], Method: netreq.MethodPost}
			switch {
			case rawJSON != "" && len(fields) > 0:
				return errors.New("--json and --field are mutually exclusive")
			case rawJSON != "":
				if !json.Valid([]byte(rawJSON)) {
					return errors.Errorf("--json is not valid JSON: %q", rawJSON)
				}
				desc.Parameters = netreq.JSON(json.RawMessage(rawJSON))
			case len(fields) > 0:
				pairs, err := parsePairs("field", fields)
				if err != nil {
					return err
				}
				body := make(map[string]any, len(pairs))
				for k, v := range pairs {
					body[k] = v
				}
				desc.Parameters = netreq.Body(body)
			}
			return send(cmd, flags, desc)
		},
	}
	cmd.Flags().StringVar(&rawJSON, "json", "", "JSON document to send as the body")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "JSON object field as key=value (repeatable)")
	return cmd
}

// send applies the global headers to desc, performs it and writes the body
// to the command's output.
func send(cmd *cobra.Command, flags *globalFlags, desc netreq.Descriptor) error {
	headers, err := parsePairs("header", flags.headers)
	if err != nil {
		return err
	}
	for k, v := range headers {
		desc = desc.WithHeader(k, v)
	}

	s, err := newSession(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	body, sendErr := s.client.Send(ctx, desc)
	if err := s.report(cmd.ErrOrStderr()); err != nil {
		return err
	}
	if sendErr != nil {
		return sendErr
	}

	out := cmd.OutOrStdout()
	if _, err := out.Write(body); err != nil {
		return errors.Wrap(err, "write response")
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, err = out.Write([]byte{'\n'})
	}
	return err
}
