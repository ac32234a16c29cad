package irc

// IRC commands Twitch actually sends on TMI. Anything not listed here is
// dropped by the parser.
const (
	CmdPing            = "PING"
	CmdPrivmsg         = "PRIVMSG"
	CmdNotice          = "NOTICE"
	CmdUsernotice      = "USERNOTICE"
	CmdWhisper         = "WHISPER"
	CmdRoomstate       = "ROOMSTATE"
	CmdClearchat       = "CLEARCHAT"
	CmdClearmsg        = "CLEARMSG"
	CmdCap             = "CAP"
	CmdJoin            = "JOIN"
	CmdPart            = "PART"
	CmdGlobalUserstate = "GLOBALUSERSTATE"
	CmdUserstate       = "USERSTATE"
	CmdNamesList       = "353"
	CmdEndOfNamesList  = "366"
	CmdHosttarget      = "HOSTTARGET"
	CmdReconnect       = "RECONNECT"
)

// welcomeNumerics are the post-login numerics (welcome banner and MOTD).
// They carry no channel, only trailing text.
var welcomeNumerics = map[string]bool{
	"001": true,
	"002": true,
	"003": true,
	"004": true,
	"375": true,
	"372": true,
	"376": true,
}
