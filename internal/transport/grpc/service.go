package grpcapi

import "google.golang.org/grpc"

// TranscriptServiceServer is the hand-written equivalent of a protoc-generated
// server interface: one client-streaming ingestion RPC, one server-streaming
// long-running inference RPC.
type TranscriptServiceServer interface {
	IngestTokens(TranscriptService_IngestTokensServer) error
	Infer(*InferRequest, TranscriptService_InferServer) error
}

// TranscriptService_IngestTokensServer is the server-side handle for the
// client-streaming IngestTokens RPC.
type TranscriptService_IngestTokensServer interface {
	Recv() (*TokenBatch, error)
	SendAndClose(*IngestAck) error
	grpc.ServerStream
}

type transcriptServiceIngestTokensServer struct {
	grpc.ServerStream
}

func (x *transcriptServiceIngestTokensServer) Recv() (*TokenBatch, error) {
	m := new(TokenBatch)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (x *transcriptServiceIngestTokensServer) SendAndClose(m *IngestAck) error {
	return x.ServerStream.SendMsg(m)
}

// TranscriptService_InferServer is the server-side handle for the
// server-streaming Infer RPC.
type TranscriptService_InferServer interface {
	Send(*InferUpdate) error
	grpc.ServerStream
}

type transcriptServiceInferServer struct {
	grpc.ServerStream
}

func (x *transcriptServiceInferServer) Send(m *InferUpdate) error {
	return x.ServerStream.SendMsg(m)
}

func _TranscriptService_IngestTokens_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(TranscriptServiceServer).IngestTokens(&transcriptServiceIngestTokensServer{stream})
}

func _TranscriptService_Infer_Handler(srv any, stream grpc.ServerStream) error {
	m := new(InferRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TranscriptServiceServer).Infer(m, &transcriptServiceInferServer{stream})
}

// ServiceDesc is registered against a *grpc.Server in place of a
// protoc-generated _ServiceDesc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "transcriptmanager.TranscriptService",
	HandlerType: (*TranscriptServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "IngestTokens",
			Handler:       _TranscriptService_IngestTokens_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "Infer",
			Handler:       _TranscriptService_Infer_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "internal/transport/grpc/service.go",
}

// RegisterTranscriptServiceServer registers srv against s. It does not set a
// codec itself: s must be built with grpc.ForceServerCodec(Codec) so the
// messages travel as JSON and no protobuf wire format is involved.
func RegisterTranscriptServiceServer(s *grpc.Server, srv TranscriptServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
