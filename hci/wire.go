package hci

import "encoding/json"

// Request envelope. One exchange always carries two service requests:
// a ServerInfo leader and the actual operation.

type apiRequest struct {
	Auth      json.RawMessage `json:"auth,omitempty"`
	Client    json.RawMessage `json:"client,omitempty"`
	Ext       string          `json:"ext,omitempty"`
	Ver       string          `json:"ver"`
	Lang      string          `json:"lang"`
	SvcReqL   []svcReq        `json:"svcReqL"`
	Formatted bool            `json:"formatted"`
}

type svcReq struct {
	Meth string  `json:"meth"`
	Cfg  *svcCfg `json:"cfg,omitempty"`
	Req  any     `json:"req"`
}

type svcCfg struct {
	PolyEnc string `json:"polyEnc"`
}

type serverInfoReq struct {
	GetServerDateTime  bool `json:"getServerDateTime"`
	GetTimeTablePeriod bool `json:"getTimeTablePeriod"`
}

type locGeoPosReq struct {
	Ring     ring `json:"ring"`
	GetStops bool `json:"getStops"`
	GetPOIs  bool `json:"getPOIs"`
	MaxLoc   int  `json:"maxLoc"`
}

type ring struct {
	CCrd    jsonCrd `json:"cCrd"`
	MaxDist int     `json:"maxDist"`
}

type locMatchReq struct {
	Input locMatchInput `json:"input"`
}

type locMatchInput struct {
	Field  string  `json:"field"`
	Loc    jsonLoc `json:"loc"`
	MaxLoc int     `json:"maxLoc"`
}

type stationBoardReq struct {
	Type         string       `json:"type"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	StbLoc       stationBoard `json:"stbLoc"`
	StbFltrEquiv *bool        `json:"stbFltrEquiv,omitempty"`
	MaxJny       int          `json:"maxJny"`
}

type stationBoard struct {
	Type  string `json:"type"`
	State string `json:"state"`
	ExtID string `json:"extId"`
}

type tripSearchReq struct {
	CtxScr       string      `json:"ctxScr,omitempty"`
	DepLocL      []jsonLoc   `json:"depLocL"`
	ArrLocL      []jsonLoc   `json:"arrLocL"`
	ViaLocL      []viaLoc    `json:"viaLocL,omitempty"`
	OutDate      string      `json:"outDate"`
	OutTime      string      `json:"outTime"`
	OutFrwd      string      `json:"outFrwd"`
	JnyFltrL     []jnyFilter `json:"jnyFltrL,omitempty"`
	GisFltrL     []gisFilter `json:"gisFltrL"`
	GetPolyline  bool        `json:"getPolyline"`
	GetPasslist  bool        `json:"getPasslist"`
	GetConGroups bool        `json:"getConGroups"`
	GetIST       bool        `json:"getIST"`
	GetEco       bool        `json:"getEco"`
	ExtChgTime   int         `json:"extChgTime"`
}

type viaLoc struct {
	Loc jsonLoc `json:"loc"`
}

type jnyFilter struct {
	Value string `json:"value"`
	Mode  string `json:"mode"`
	Type  string `json:"type"`
}

type gisFilter struct {
	Mode    string     `json:"mode"`
	Profile gisProfile `json:"profile"`
	Type    string     `json:"type"`
	Meta    string     `json:"meta"`
}

type gisProfile struct {
	Type           string `json:"type"`
	LinDistRouting bool   `json:"linDistRouting"`
	MaxDist        int    `json:"maxdist"`
}

// Response envelope. The payload shape depends on the service method,
// so it stays raw until the method is known.

type apiResponse struct {
	Err     string   `json:"err"`
	ErrTxt  string   `json:"errTxt"`
	Ver     string   `json:"ver"`
	SvcResL []svcRes `json:"svcResL"`
}

type svcRes struct {
	Meth   string          `json:"meth"`
	Err    string          `json:"err"`
	ErrTxt string          `json:"errTxt"`
	Res    json.RawMessage `json:"res"`
}

// jsonCommon is the shared lookup-table block of a response. Every list
// is referenced by index from the payload.
type jsonCommon struct {
	RemL    []jsonRemark   `json:"remL"`
	IcoL    []jsonIcon     `json:"icoL"`
	OpL     []jsonOperator `json:"opL"`
	ProdL   []jsonProduct  `json:"prodL"`
	CrdSysL []jsonCrdSys   `json:"crdSysL"`
	PolyL   []jsonPoly     `json:"polyL"`
	LocL    []jsonLoc      `json:"locL"`
	SD      string         `json:"sD"`
	ST      string         `json:"sT"`
}

type serverInfoRes struct {
	Common jsonCommon `json:"common"`
}

type locGeoPosRes struct {
	Common jsonCommon `json:"common"`
	LocL   []jsonLoc  `json:"locL"`
}

type locMatchRes struct {
	Common jsonCommon `json:"common"`
	Match  *struct {
		LocL []jsonLoc `json:"locL"`
	} `json:"match"`
}

type stationBoardRes struct {
	Common jsonCommon    `json:"common"`
	JnyL   []jsonJourney `json:"jnyL"`
}

type tripSearchRes struct {
	Common     jsonCommon       `json:"common"`
	OutConL    []jsonConnection `json:"outConL"`
	OutCtxScrF string           `json:"outCtxScrF"`
	OutCtxScrB string           `json:"outCtxScrB"`
}

// jsonLoc doubles as the location shape of requests and of the locL
// lookup table. Absent integer fields mean "no reference", so they stay
// pointers rather than zero values.
type jsonLoc struct {
	Type      string   `json:"type,omitempty"`
	Lid       string   `json:"lid,omitempty"`
	ExtID     string   `json:"extId,omitempty"`
	Name      string   `json:"name,omitempty"`
	MMastLocX *int     `json:"mMastLocX,omitempty"`
	PCls      *int     `json:"pCls,omitempty"`
	Crd       *jsonCrd `json:"crd,omitempty"`
	CrdSysX   *int     `json:"crdSysX,omitempty"`
}

type jsonCrd struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type jsonCrdSys struct {
	Type string `json:"type"`
}

type jsonRemark struct {
	Code string `json:"code"`
	TxtS string `json:"txtS"`
	TxtN string `json:"txtN"`
}

type jsonRemRef struct {
	RemX int `json:"remX"`
}

type jsonOperator struct {
	Name string `json:"name"`
}

type jsonIcon struct {
	Bg  *jsonColor `json:"bg"`
	Fg  *jsonColor `json:"fg"`
	Shp string     `json:"shp"`
}

type jsonColor struct {
	A *int `json:"a"`
	R int  `json:"r"`
	G int  `json:"g"`
	B int  `json:"b"`
}

type jsonProduct struct {
	Name    string `json:"name"`
	NameS   string `json:"nameS"`
	AddName string `json:"addName"`
	Number  string `json:"number"`
	IcoX    int    `json:"icoX"`
	OprX    *int   `json:"oprX"`
	Cls     *int   `json:"cls"`
	ProdCtx *struct {
		LineID string `json:"lineId"`
	} `json:"prodCtx"`
}

type jsonPoly struct {
	Delta    bool   `json:"delta"`
	CrdEncYX string `json:"crdEncYX"`
}

// jsonStop carries up to four independent time/platform pairs. Platforms
// arrive either as the structured pltf object or the older flat string.
type jsonStop struct {
	LocX  int `json:"locX"`
	DCncl bool `json:"dCncl"`

	DProdX  *int          `json:"dProdX"`
	DTimeS  string        `json:"dTimeS"`
	DTimeR  string        `json:"dTimeR"`
	DPltfS  *jsonPlatform `json:"dPltfS"`
	DPlatfS string        `json:"dPlatfS"`
	DPltfR  *jsonPlatform `json:"dPltfR"`
	DPlatfR string        `json:"dPlatfR"`

	ACncl   bool          `json:"aCncl"`
	ATimeS  string        `json:"aTimeS"`
	ATimeR  string        `json:"aTimeR"`
	APltfS  *jsonPlatform `json:"aPltfS"`
	APlatfS string        `json:"aPlatfS"`
	APltfR  *jsonPlatform `json:"aPltfR"`
	APlatfR string        `json:"aPlatfR"`
}

type jsonPlatform struct {
	Txt string `json:"txt"`
}

type jsonJourney struct {
	StbStop jsonStop     `json:"stbStop"`
	Date    string       `json:"date"`
	DirTxt  string       `json:"dirTxt"`
	StopL   []jsonStop   `json:"stopL"`
	RemL    []jsonRemRef `json:"remL"`
}

type jsonConnection struct {
	Dep        jsonStop      `json:"dep"`
	Arr        jsonStop      `json:"arr"`
	Date       string        `json:"date"`
	SecL       []jsonSection `json:"secL"`
	TrfRes     *jsonTrfRes   `json:"trfRes"`
	OvwTrfRefL []jsonTrfRef  `json:"ovwTrfRefL"`
}

type jsonSection struct {
	Type string              `json:"type"`
	Dep  jsonStop            `json:"dep"`
	Arr  jsonStop            `json:"arr"`
	Jny  *jsonSectionJourney `json:"jny"`
	Gis  *jsonGis            `json:"gis"`
}

type jsonSectionJourney struct {
	ProdX  int          `json:"prodX"`
	DirTxt string       `json:"dirTxt"`
	StopL  []jsonStop   `json:"stopL"`
	PolyG  *jsonPolyG   `json:"polyG"`
	RemL   []jsonRemRef `json:"remL"`
	MsgL   []jsonRemRef `json:"msgL"`
}

type jsonPolyG struct {
	CrdSysX *int  `json:"crdSysX"`
	PolyXL  []int `json:"polyXL"`
}

type jsonGis struct {
	Dist int `json:"dist"`
}

type jsonTrfRes struct {
	FareSetL []jsonFareSet `json:"fareSetL"`
}

type jsonFareSet struct {
	Name  string     `json:"name"`
	FareL []jsonFare `json:"fareL"`
}

type jsonFare struct {
	Name    string       `json:"name"`
	Cur     string       `json:"cur"`
	Prc     *int         `json:"prc"`
	TicketL []jsonTicket `json:"ticketL"`
}

type jsonTicket struct {
	Name string `json:"name"`
	Cur  string `json:"cur"`
	Prc  *int   `json:"prc"`
}

type jsonTrfRef struct {
	Type     string `json:"type"`
	FareSetX int    `json:"fareSetX"`
	FareX    int    `json:"fareX"`
	TicketX  int    `json:"ticketX"`
}
