package grpcapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// fullMethodName builds the method string grpc.ClientConn.NewStream expects,
// matching the ServiceDesc's ServiceName and one of its Streams entries.
func fullMethodName(streamName string) string {
	return fmt.Sprintf("/%s/%s", ServiceDesc.ServiceName, streamName)
}

// TranscriptServiceIngestTokensClient is the client-side handle for the
// client-streaming IngestTokens RPC.
type TranscriptServiceIngestTokensClient interface {
	Send(*TokenBatch) error
	CloseAndRecv() (*IngestAck, error)
}

type transcriptServiceIngestTokensClient struct {
	grpc.ClientStream
}

func (x *transcriptServiceIngestTokensClient) Send(m *TokenBatch) error {
	return x.ClientStream.SendMsg(m)
}

func (x *transcriptServiceIngestTokensClient) CloseAndRecv() (*IngestAck, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(IngestAck)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewIngestTokensClient opens an IngestTokens stream against conn, forcing
// the JSON codec so no protobuf message types are ever required.
func NewIngestTokensClient(ctx context.Context, conn *grpc.ClientConn) (TranscriptServiceIngestTokensClient, error) {
	desc := &grpc.StreamDesc{StreamName: "IngestTokens", ClientStreams: true}
	stream, err := conn.NewStream(ctx, desc, fullMethodName("IngestTokens"), grpc.ForceCodec(Codec))
	if err != nil {
		return nil, err
	}
	return &transcriptServiceIngestTokensClient{stream}, nil
}

// TranscriptServiceInferClient is the client-side handle for the
// server-streaming Infer RPC.
type TranscriptServiceInferClient interface {
	Recv() (*InferUpdate, error)
}

type transcriptServiceInferClient struct {
	grpc.ClientStream
}

func (x *transcriptServiceInferClient) Recv() (*InferUpdate, error) {
	m := new(InferUpdate)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// NewInferClient opens an Infer stream against conn, sending req as the
// stream's first (and only) message before the server replies.
func NewInferClient(ctx context.Context, conn *grpc.ClientConn, req *InferRequest) (TranscriptServiceInferClient, error) {
	desc := &grpc.StreamDesc{StreamName: "Infer", ServerStreams: true}
	stream, err := conn.NewStream(ctx, desc, fullMethodName("Infer"), grpc.ForceCodec(Codec))
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &transcriptServiceInferClient{stream}, nil
}
