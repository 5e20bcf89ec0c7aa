package mirror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/gorilla/websocket"
)

const testDoc = `{"current-slide":0,"preview-slide":0,"title":"Sunday","slides":[
	{"transition":1,"items":[{"x":0,"y":0,"w":500,"h":200,"type":"text","text-data":"QQ=="}]},
	{"transition":1,"items":[{"x":0,"y":0,"w":500,"h":200,"type":"text","text-data":"Qg=="}]},
	{"transition":1,"items":[]}
]}`

func newTestDeck(t *testing.T) *goslides.Deck {
	t.Helper()
	doc, err := goslides.DecodeDocument([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}
	d := goslides.NewDeck(&goslides.DeckOptions{SurfaceWidth: 1920, SurfaceHeight: 1080})
	d.LoadData(*doc)
	return d
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return f
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewFrame(t *testing.T) {
	d := newTestDeck(t)
	f := NewFrame(d, d.Current(), goslides.EventCurrentSlideChanged)
	if f.Blank || f.Index != 0 || f.Slide == nil || f.Slide.ExtractText() != "A" {
		t.Fatalf("frame = %+v", f)
	}
	if f.Kind != "current-slide-changed" || f.SlideID != d.Current().ID() {
		t.Fatalf("frame = %+v", f)
	}

	blank := NewFrame(d, nil, goslides.EventReset)
	if !blank.Blank || blank.Index != -1 || blank.Slide != nil {
		t.Fatalf("nil slide frame = %+v", blank)
	}
	end := NewFrame(d, d.EndSlide(), goslides.EventCurrentSlideChanged)
	if !end.Blank || end.Slide != nil || end.SlideID != d.EndSlide().ID() {
		t.Fatalf("end slide frame = %+v", end)
	}
}

func TestHubStreamsLiveSlide(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(Router(hub))
	defer srv.Close()
	defer hub.Close()

	resp, err := http.Get(srv.URL + "/current")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status before any frame = %d", resp.StatusCode)
	}

	d := newTestDeck(t)
	hub.Attach(d)
	defer hub.Detach()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	first := readFrame(t, conn)
	if first.Seq != 1 || first.Index != 0 || first.Blank {
		t.Fatalf("first frame = %+v", first)
	}

	d.NextSlide()
	next := readFrame(t, conn)
	if next.Seq != 2 || next.Index != 1 || next.Slide == nil || next.Slide.ExtractText() != "B" {
		t.Fatalf("next frame = %+v", next)
	}

	d.ShowEndPresentationSlide()
	end := readFrame(t, conn)
	if !end.Blank || end.Seq != 3 {
		t.Fatalf("end frame = %+v", end)
	}

	resp, err = http.Get(srv.URL + "/current")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var cur Frame
	if err := json.NewDecoder(resp.Body).Decode(&cur); err != nil {
		t.Fatal(err)
	}
	if cur.Seq != 3 || !cur.Blank {
		t.Fatalf("/current = %+v", cur)
	}
}

func TestHubIgnoresOtherSlides(t *testing.T) {
	hub := NewHub()
	d := newTestDeck(t)
	hub.Attach(d)

	// A preview request for a slide that is not live publishes nothing.
	d.Slides()[2].SetBackgroundColor("#000000")
	if f, _ := hub.Last(); f.Seq != 1 {
		t.Fatalf("seq = %d, want 1", f.Seq)
	}
	d.Current().SetBackgroundColor("#000000")
	if f, _ := hub.Last(); f.Seq != 2 || f.Kind != "request-draw-preview" {
		t.Fatalf("frame = %+v", f)
	}

	hub.Detach()
	d.NextSlide()
	if f, _ := hub.Last(); f.Seq != 2 {
		t.Fatal("detached hub still publishes")
	}
}

func TestClosedHubRejectsClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(Router(hub))
	defer srv.Close()
	hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("read error = %v, want going away", err)
	}
	hub.Publish(Frame{})
	if _, ok := hub.Last(); ok {
		t.Fatal("closed hub accepted a frame")
	}
}
