package tts

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	edgeEndpoint = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?TrustedClientToken=6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeOrigin   = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	edgeFormat   = "audio-24khz-48kbitrate-mono-mp3"
)

// EdgeSpeech streams neural speech over the Edge read-aloud websocket.
type EdgeSpeech struct {
	dialer *websocket.Dialer
}

func NewEdgeSpeech(timeout time.Duration) *EdgeSpeech {
	return &EdgeSpeech{dialer: &websocket.Dialer{HandshakeTimeout: timeout}}
}

func (e *EdgeSpeech) Name() string { return "edge" }

// Synthesize sends the speech config and one SSML turn, then collects
// binary audio frames until the service signals the end of the turn.
func (e *EdgeSpeech) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	header := http.Header{}
	header.Set("Origin", edgeOrigin)

	conn, resp, err := e.dialer.DialContext(ctx, edgeEndpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("edge dial: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("edge dial: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfig())); err != nil {
		return nil, fmt.Errorf("edge speech config: %w", err)
	}

	reqID, err := requestID()
	if err != nil {
		return nil, fmt.Errorf("edge request id: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMessage(reqID, text, voice.Name))); err != nil {
		return nil, fmt.Errorf("edge ssml: %w", err)
	}

	var audio bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("edge read: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(frame), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, errors.New("edge returned no audio")
				}
				return audio.Bytes(), nil
			}
		case websocket.BinaryMessage:
			if payload, ok := binaryAudio(frame); ok {
				audio.Write(payload)
			}
		}
	}
}

// binaryAudio splits a binary frame into its header block and payload.
// The first two bytes carry the big-endian header length; only frames
// whose headers name the audio path carry MP3 data.
func binaryAudio(frame []byte) ([]byte, bool) {
	if len(frame) < 2 {
		return nil, false
	}
	headerLen := int(binary.BigEndian.Uint16(frame[:2]))
	if len(frame) < 2+headerLen {
		return nil, false
	}
	if !bytes.Contains(frame[2:2+headerLen], []byte("Path:audio")) {
		return nil, false
	}
	return frame[2+headerLen:], true
}

func speechConfig() string {
	return "X-Timestamp:" + edgeTimestamp() + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"` + edgeFormat + `"}}}}`
}

func ssmlMessage(reqID, text, voiceName string) string {
	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(text))

	ssml := fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'>"+
			"<voice name='%s'><prosody pitch='+0Hz' rate='+0%%' volume='+0%%'>%s</prosody></voice></speak>",
		voiceRegion(voiceName), voiceName, escaped.String())

	return "X-RequestId:" + reqID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + edgeTimestamp() + "\r\n" +
		"Path:ssml\r\n\r\n" + ssml
}

// voiceRegion derives the BCP-47 region from a neural voice name, for
// example en-IE-EmilyNeural speaks en-IE.
func voiceRegion(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}

func edgeTimestamp() string {
	return time.Now().UTC().Format("Mon Jan 02 2006 15:04:05") + " GMT+0000 (Coordinated Universal Time)"
}

func requestID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
