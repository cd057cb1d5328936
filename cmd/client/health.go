package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/grpcserver"
)

func healthCmd(opts *options) *cobra.Command {
	var (
		grpcAddr string
		service  string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the gRPC health service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer conn.Close()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
				return fmt.Errorf("service %q is %s", service, resp.GetStatus())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grpcAddr, "grpc", "localhost:50051", "gRPC server address")
	cmd.Flags().StringVar(&service, "service", grpcserver.TaskServiceName, "Service name to check (empty for overall)")
	return cmd
}
