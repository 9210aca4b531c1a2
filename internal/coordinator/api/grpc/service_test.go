package grpc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nemanja-m/logscan/internal/coordinator/service"
	"github.com/nemanja-m/logscan/internal/coordinator/storage"
	"github.com/nemanja-m/logscan/internal/shared/config"
	"github.com/nemanja-m/logscan/internal/shared/logging"
	"github.com/nemanja-m/logscan/internal/shared/proto"
	workergrpc "github.com/nemanja-m/logscan/internal/worker/api/grpc"
	workerservice "github.com/nemanja-m/logscan/internal/worker/service"
	"github.com/nemanja-m/logscan/pkg/local"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

func startServer(t *testing.T, exchange *service.Exchange) *bufconn.Listener {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := NewServer(config.GRPCConfig{KeepaliveMinTime: time.Second}, exchange, logging.Nop())
	go server.Serve(lis)
	t.Cleanup(server.Stop)
	return lis
}

func dialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func newServiceClient(t *testing.T, lis *bufconn.Listener) proto.CoordinatorServiceClient {
	t.Helper()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		dialer(lis),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return proto.NewCoordinatorServiceClient(conn)
}

func TestCoordinatorService_EndToEnd(t *testing.T) {
	var content strings.Builder
	for i := range 1000 {
		switch {
		case i%10 == 0:
			content.WriteString("2024-01-01 WARNING low disk, ERROR imminent\n")
		case i%4 == 0:
			content.WriteString("2024-01-01 ERROR write failed\n")
		case i%3 == 0:
			content.WriteString("2024-01-01 WARNING slow write\n")
		default:
			content.WriteString("2024-01-01 INFO ok\n")
		}
	}
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content.String()), 0o644))

	lines, err := local.LoadLines(path)
	require.NoError(t, err)
	want := logscan.CountLines(lines)

	const workers = 4
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exchange := service.NewExchange(workers, logging.Nop())
	lis := startServer(t, exchange)

	errs := make(chan error, workers-1)
	for range workers - 1 {
		go func() {
			client, err := workergrpc.NewCoordinatorClient("passthrough:///bufnet", config.WorkerGRPCConfig{}, uuid.New(), dialer(lis))
			if err != nil {
				errs <- err
				return
			}
			defer client.Close()

			_, err = workerservice.NewWorkerService(client, local.NewScanner(3), "", logging.Nop()).Run(ctx)
			errs <- err
		}()
	}

	runService := service.NewRunService(workers, exchange, local.NewScanner(2), storage.NewInMemoryRunStore(), logging.Nop())
	run, err := runService.Run(ctx, path)
	require.NoError(t, err)
	require.Equal(t, want, run.Counts)
	require.Len(t, run.Ranks, workers)

	for range workers - 1 {
		require.NoError(t, <-errs)
	}

	total := 0
	for _, r := range run.Ranks {
		total += r.Lines
	}
	require.Equal(t, len(lines), total)
}

func TestCoordinatorService_RegisterWorker(t *testing.T) {
	exchange := service.NewExchange(2, logging.Nop())
	client := newServiceClient(t, startServer(t, exchange))
	ctx := context.Background()

	resp, err := client.RegisterWorker(ctx, &proto.RegisterWorkerRequest{WorkerId: "not-a-uuid"})
	require.NoError(t, err)
	require.Equal(t, proto.RegistrationStatusBadRequest, resp.Status)

	resp, err = client.RegisterWorker(ctx, &proto.RegisterWorkerRequest{WorkerId: uuid.NewString(), Parallelism: 8})
	require.NoError(t, err)
	require.Equal(t, proto.RegistrationStatusSuccess, resp.Status)
	require.Equal(t, uint32(1), resp.Rank)
	require.Equal(t, uint32(2), resp.WorldSize)

	resp, err = client.RegisterWorker(ctx, &proto.RegisterWorkerRequest{WorkerId: uuid.NewString()})
	require.NoError(t, err)
	require.Equal(t, proto.RegistrationStatusRejected, resp.Status)
}

func TestCoordinatorService_UnknownWorker(t *testing.T) {
	exchange := service.NewExchange(2, logging.Nop())
	client := newServiceClient(t, startServer(t, exchange))
	ctx := context.Background()

	_, err := client.FetchFragment(ctx, &proto.FetchFragmentRequest{WorkerId: uuid.NewString(), Rank: 1})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ReportCounts(ctx, &proto.ReportCountsRequest{WorkerId: "bad", Rank: 1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCoordinatorService_DuplicateReport(t *testing.T) {
	exchange := service.NewExchange(2, logging.Nop())
	client := newServiceClient(t, startServer(t, exchange))
	ctx := context.Background()

	id := uuid.NewString()
	resp, err := client.RegisterWorker(ctx, &proto.RegisterWorkerRequest{WorkerId: id})
	require.NoError(t, err)

	go exchange.SendFragment(ctx, logscan.Fragment{Rank: int(resp.Rank), Lines: logscan.LineSet{logscan.Line("WARNING a\n")}})
	_, err = client.FetchFragment(ctx, &proto.FetchFragmentRequest{WorkerId: id, Rank: resp.Rank})
	require.NoError(t, err)

	report := &proto.ReportCountsRequest{WorkerId: id, Rank: resp.Rank, Warnings: 1, Lines: 1}
	ack, err := client.ReportCounts(ctx, report)
	require.NoError(t, err)
	require.True(t, ack.Acknowledged)

	_, err = client.ReportCounts(ctx, report)
	require.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestCoordinatorService_ReportBeforeFetch(t *testing.T) {
	exchange := service.NewExchange(2, logging.Nop())
	client := newServiceClient(t, startServer(t, exchange))
	ctx := context.Background()

	id := uuid.NewString()
	resp, err := client.RegisterWorker(ctx, &proto.RegisterWorkerRequest{WorkerId: id})
	require.NoError(t, err)

	_, err = client.ReportCounts(ctx, &proto.ReportCountsRequest{WorkerId: id, Rank: resp.Rank, Warnings: 1000, Errors: 1000, Lines: 999999})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}
