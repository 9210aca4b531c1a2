// Package proto holds the coordinator service messages. They are encoded in
// protobuf wire format (see api/proto/logscan.proto) with protowire.
package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/nemanja-m/logscan/pkg/logscan"
)

type RegistrationStatus int32

const (
	RegistrationStatusSuccess    RegistrationStatus = 0
	RegistrationStatusBadRequest RegistrationStatus = 1
	RegistrationStatusRejected   RegistrationStatus = 2
	RegistrationStatusFailed     RegistrationStatus = 3
)

func (s RegistrationStatus) String() string {
	switch s {
	case RegistrationStatusSuccess:
		return "SUCCESS"
	case RegistrationStatusBadRequest:
		return "BAD_REQUEST"
	case RegistrationStatusRejected:
		return "REJECTED"
	case RegistrationStatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("RegistrationStatus(%d)", int32(s))
	}
}

type RegisterWorkerRequest struct {
	WorkerId    string
	Address     string
	Parallelism uint32
}

func (m *RegisterWorkerRequest) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.WorkerId)
	b = appendString(b, 2, m.Address)
	b = appendVarint(b, 3, uint64(m.Parallelism))
	return b, nil
}

func (m *RegisterWorkerRequest) UnmarshalBinary(b []byte) error {
	*m = RegisterWorkerRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.WorkerId)
		case 2:
			return consumeString(typ, b, &m.Address)
		case 3:
			return consumeUint32(typ, b, &m.Parallelism)
		}
		return 0
	})
}

type RegisterWorkerResponse struct {
	Status    RegistrationStatus
	Message   string
	Rank      uint32
	WorldSize uint32
}

func (m *RegisterWorkerResponse) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Status))
	b = appendString(b, 2, m.Message)
	b = appendVarint(b, 3, uint64(m.Rank))
	b = appendVarint(b, 4, uint64(m.WorldSize))
	return b, nil
}

func (m *RegisterWorkerResponse) UnmarshalBinary(b []byte) error {
	*m = RegisterWorkerResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			var v uint64
			n := consumeVarint(typ, b, &v)
			m.Status = RegistrationStatus(int32(v))
			return n
		case 2:
			return consumeString(typ, b, &m.Message)
		case 3:
			return consumeUint32(typ, b, &m.Rank)
		case 4:
			return consumeUint32(typ, b, &m.WorldSize)
		}
		return 0
	})
}

type FetchFragmentRequest struct {
	WorkerId string
	Rank     uint32
}

func (m *FetchFragmentRequest) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.WorkerId)
	b = appendVarint(b, 2, uint64(m.Rank))
	return b, nil
}

func (m *FetchFragmentRequest) UnmarshalBinary(b []byte) error {
	*m = FetchFragmentRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.WorkerId)
		case 2:
			return consumeUint32(typ, b, &m.Rank)
		}
		return 0
	})
}

// FetchFragmentResponse carries one worker's lines. Each line is written as
// its own length-delimited field, so line boundaries survive the transfer
// byte for byte.
type FetchFragmentResponse struct {
	Rank  uint32
	Start uint64
	Lines [][]byte
}

func NewFetchFragmentResponse(f logscan.Fragment) *FetchFragmentResponse {
	lines := make([][]byte, len(f.Lines))
	for i, line := range f.Lines {
		lines[i] = line
	}
	return &FetchFragmentResponse{
		Rank:  uint32(f.Rank),
		Start: uint64(f.Start),
		Lines: lines,
	}
}

// Fragment converts a decoded message into a fragment. UnmarshalBinary
// copies every line out of the wire buffer, so the fragment owns its lines.
func (m *FetchFragmentResponse) Fragment() logscan.Fragment {
	lines := make(logscan.LineSet, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = line
	}
	return logscan.Fragment{
		Rank:  int(m.Rank),
		Start: int(m.Start),
		Lines: lines,
	}
}

func (m *FetchFragmentResponse) MarshalBinary() ([]byte, error) {
	// rank and start fit in 16 bytes with their tags
	size := 16
	for _, line := range m.Lines {
		size += protowire.SizeTag(3) + protowire.SizeBytes(len(line))
	}

	b := make([]byte, 0, size)
	b = appendVarint(b, 1, uint64(m.Rank))
	b = appendVarint(b, 2, m.Start)
	for _, line := range m.Lines {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, line)
	}
	return b, nil
}

func (m *FetchFragmentResponse) UnmarshalBinary(b []byte) error {
	*m = FetchFragmentResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeUint32(typ, b, &m.Rank)
		case 2:
			return consumeVarint(typ, b, &m.Start)
		case 3:
			if typ != protowire.BytesType {
				return 0
			}
			v, n := protowire.ConsumeBytes(b)
			if n >= 0 {
				m.Lines = append(m.Lines, append([]byte(nil), v...))
			}
			return n
		}
		return 0
	})
}

type ReportCountsRequest struct {
	WorkerId string
	Rank     uint32
	Warnings uint64
	Errors   uint64
	Lines    uint64
}

func NewReportCountsRequest(workerID string, rank int, counts logscan.Counts, lines int) *ReportCountsRequest {
	return &ReportCountsRequest{
		WorkerId: workerID,
		Rank:     uint32(rank),
		Warnings: uint64(counts.Warnings),
		Errors:   uint64(counts.Errors),
		Lines:    uint64(lines),
	}
}

func (m *ReportCountsRequest) Counts() logscan.Counts {
	return logscan.Counts{Warnings: int(m.Warnings), Errors: int(m.Errors)}
}

func (m *ReportCountsRequest) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.WorkerId)
	b = appendVarint(b, 2, uint64(m.Rank))
	b = appendVarint(b, 3, m.Warnings)
	b = appendVarint(b, 4, m.Errors)
	b = appendVarint(b, 5, m.Lines)
	return b, nil
}

func (m *ReportCountsRequest) UnmarshalBinary(b []byte) error {
	*m = ReportCountsRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.WorkerId)
		case 2:
			return consumeUint32(typ, b, &m.Rank)
		case 3:
			return consumeVarint(typ, b, &m.Warnings)
		case 4:
			return consumeVarint(typ, b, &m.Errors)
		case 5:
			return consumeVarint(typ, b, &m.Lines)
		}
		return 0
	})
}

type ReportCountsResponse struct {
	Acknowledged bool
}

func (m *ReportCountsResponse) MarshalBinary() ([]byte, error) {
	var b []byte
	if m.Acknowledged {
		b = appendVarint(b, 1, protowire.EncodeBool(true))
	}
	return b, nil
}

func (m *ReportCountsResponse) UnmarshalBinary(b []byte) error {
	*m = ReportCountsResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num != 1 {
			return 0
		}
		var v uint64
		n := consumeVarint(typ, b, &v)
		m.Acknowledged = protowire.DecodeBool(v)
		return n
	})
}
