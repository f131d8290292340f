package probe

import (
	"NetSentinel/internal/model"
	"fmt"
	"math"
	"net"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeFlow serializes a flow record as a protobuf Struct.
func EncodeFlow(info *model.PacketInfo) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"ts":         info.Timestamp.UTC().Format(time.RFC3339Nano),
		"ip_version": info.IPVersion().String(),
		"src_ip":     info.FiveTuple.SrcIP.String(),
		"dst_ip":     info.FiveTuple.DstIP.String(),
		"src_port":   int64(info.FiveTuple.SrcPort),
		"dst_port":   int64(info.FiveTuple.DstPort),
		"protocol":   int64(info.FiveTuple.Protocol),
		"length":     int64(info.Length),
		"direction":  info.Direction.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build flow record: %w", err)
	}
	return proto.Marshal(msg)
}

// DecodeFlow is the inverse of EncodeFlow.
func DecodeFlow(data []byte) (*model.PacketInfo, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow record: %w", err)
	}
	fields := msg.GetFields()

	ts, err := time.Parse(time.RFC3339Nano, fields["ts"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid flow timestamp: %w", err)
	}
	src := net.ParseIP(fields["src_ip"].GetStringValue())
	dst := net.ParseIP(fields["dst_ip"].GetStringValue())
	if src == nil || dst == nil {
		return nil, fmt.Errorf("invalid flow addresses %q -> %q",
			fields["src_ip"].GetStringValue(), fields["dst_ip"].GetStringValue())
	}

	var version model.IPVersion
	switch v := fields["ip_version"].GetStringValue(); v {
	case "":
		// Records without a version are classified by their source address.
	case model.IPv4.String():
		version = model.IPv4
	case model.IPv6.String():
		version = model.IPv6
	default:
		return nil, fmt.Errorf("invalid flow ip_version %q", v)
	}

	srcPort, err := number(fields, "src_port", math.MaxUint16)
	if err != nil {
		return nil, err
	}
	dstPort, err := number(fields, "dst_port", math.MaxUint16)
	if err != nil {
		return nil, err
	}
	protocol, err := number(fields, "protocol", math.MaxUint8)
	if err != nil {
		return nil, err
	}
	length, err := number(fields, "length", math.MaxInt32)
	if err != nil {
		return nil, err
	}

	info := &model.PacketInfo{
		Timestamp: ts,
		FiveTuple: model.FiveTuple{
			SrcIP:    src,
			DstIP:    dst,
			SrcPort:  uint16(srcPort),
			DstPort:  uint16(dstPort),
			Protocol: uint8(protocol),
		},
		Length:  int(length),
		Version: version,
	}
	if fields["direction"].GetStringValue() == model.Outgoing.String() {
		info.Direction = model.Outgoing
	}
	return info, nil
}

// number returns the integral value of a numeric field within [0, limit].
func number(fields map[string]*structpb.Value, key string, limit float64) (float64, error) {
	v, ok := fields[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("flow field %q is missing or not a number", key)
	}
	n := v.NumberValue
	if n < 0 || n > limit || n != math.Trunc(n) {
		return 0, fmt.Errorf("flow field %q out of range: %v", key, n)
	}
	return n, nil
}
